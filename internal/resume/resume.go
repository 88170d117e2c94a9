// Package resume holds the candidate résumé that every chat session talks about.
package resume

import (
	"fmt"
	"strings"
)

type Resume struct {
	Intro      Intro        `mapstructure:"intro" json:"intro" validate:"required"`
	Experience []Experience `mapstructure:"experience" json:"experience" validate:"dive"`
	Projects   []Project    `mapstructure:"projects" json:"projects" validate:"dive"`
	Education  []Education  `mapstructure:"education" json:"education" validate:"dive"`
}

type Intro struct {
	Name    string `mapstructure:"name" json:"name" validate:"required"`
	Email   string `mapstructure:"email" json:"email" validate:"required,email"`
	Summary string `mapstructure:"summary" json:"summary" validate:"required"`
}

type Experience struct {
	Title       string `mapstructure:"title" json:"title" validate:"required"`
	Company     string `mapstructure:"company" json:"company"`
	Start       string `mapstructure:"start" json:"start"`
	End         string `mapstructure:"end" json:"end"`
	Description string `mapstructure:"description" json:"description"`
}

type Project struct {
	Title        string `mapstructure:"title" json:"title" validate:"required"`
	Organization string `mapstructure:"organization" json:"organization"`
	Start        string `mapstructure:"start" json:"start"`
	End          string `mapstructure:"end" json:"end"`
	Description  string `mapstructure:"description" json:"description"`
}

type Education struct {
	School      string `mapstructure:"school" json:"school" validate:"required"`
	Degree      string `mapstructure:"degree" json:"degree"`
	Start       string `mapstructure:"start" json:"start"`
	End         string `mapstructure:"end" json:"end"`
	Description string `mapstructure:"description" json:"description"`
}

// Fields returns the text the relevance ranker matches keyphrases against.
func (e Experience) Fields() []string { return []string{e.Title, e.Company, e.Description} }

// Fields returns the text the relevance ranker matches keyphrases against.
func (p Project) Fields() []string { return []string{p.Title, p.Organization, p.Description} }

// Heading is the one-line label used in side panels.
func (e Experience) Heading() string {
	if e.Company == "" {
		return e.Title
	}
	return fmt.Sprintf("%s @ %s", e.Title, e.Company)
}

func (p Project) Heading() string { return p.Title }

func (e Experience) Org() string    { return e.Company }
func (p Project) Org() string       { return p.Organization }
func (e Experience) Period() string { return period(e.Start, e.End) }
func (p Project) Period() string    { return period(p.Start, p.End) }
func (e Experience) Body() string   { return e.Description }
func (p Project) Body() string      { return p.Description }

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " to present"
	case start == "":
		return end
	default:
		return start + " to " + end
	}
}

// Context renders the résumé as plain text for the assistant's system prompt.
func (r *Resume) Context() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Introduction: %s\n\n", strings.TrimSpace(r.Intro.Summary))

	b.WriteString("Work Experience:\n")
	for _, e := range r.Experience {
		fmt.Fprintf(&b, "- %s", e.Heading())
		if p := e.Period(); p != "" {
			fmt.Fprintf(&b, " (%s)", p)
		}
		if d := strings.TrimSpace(e.Description); d != "" {
			fmt.Fprintf(&b, ": %s", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nProjects:\n")
	for _, p := range r.Projects {
		fmt.Fprintf(&b, "- %s", p.Title)
		if p.Organization != "" {
			fmt.Fprintf(&b, " / %s", p.Organization)
		}
		if per := p.Period(); per != "" {
			fmt.Fprintf(&b, " (%s)", per)
		}
		if d := strings.TrimSpace(p.Description); d != "" {
			fmt.Fprintf(&b, ": %s", d)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nEducation:\n")
	for _, e := range r.Education {
		fmt.Fprintf(&b, "- %s", e.School)
		if e.Degree != "" {
			fmt.Fprintf(&b, ", %s", e.Degree)
		}
		if per := period(e.Start, e.End); per != "" {
			fmt.Fprintf(&b, " (%s)", per)
		}
		if d := strings.TrimSpace(e.Description); d != "" {
			fmt.Fprintf(&b, ": %s", d)
		}
		b.WriteString("\n")
	}

	return strings.TrimSpace(b.String())
}
