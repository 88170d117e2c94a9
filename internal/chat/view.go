package chat

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/keyphrase"
	"github.com/spigell/ask-my-resume/internal/ranking"
	"github.com/spigell/ask-my-resume/internal/resume"
)

const (
	Title = "Ask My Resume"

	noticeContextMissing = "Something went wrong. Please reload the page"
	noticeAPI            = "Sorry, I could not get an answer right now. Please try again."
	noticeEnded          = "This conversation has ended."
)

// View is everything a client needs to draw the chat screen.
type View struct {
	Title        string        `json:"title"`
	Banner       string        `json:"banner,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
	Phase        Phase         `json:"phase"`
	Messages     []ai.Message  `json:"messages"`
	Suggestions  []string      `json:"suggestions"`
	Projects     []PanelEntry  `json:"projects"`
	Experience   []PanelEntry  `json:"experience"`
	Keyphrases   keyphrase.Set `json:"keyphrases"`
	Turns        int           `json:"turns"`
	MaxTurns     int           `json:"max_turns"`
	InputEnabled bool          `json:"input_enabled"`
	Notice       string        `json:"notice,omitempty"`
}

// PanelEntry is one item of the relevance side panel.
type PanelEntry struct {
	Rank        int      `json:"rank"`
	Heading     string   `json:"heading"`
	Title       string   `json:"title"`
	Org         string   `json:"organization,omitempty"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description,omitempty"`
	Score       int      `json:"score"`
	Matched     []string `json:"matched,omitempty"`
}

type panelItem interface {
	ranking.Document
	Heading() string
	Org() string
	Period() string
	Body() string
}

// Render projects state onto a View. It has no side effects.
func Render(state State, r *resume.Resume, cfg Config) View {
	cfg = cfg.WithDefaults()

	v := View{
		Title:        Title,
		Phase:        state.Phase,
		Messages:     slices.Clone(state.Conversation),
		Suggestions:  slices.Clone(state.Suggestions),
		Projects:     panel(state.RelevantProjects, projectTitle),
		Experience:   panel(state.RelevantExperience, experienceTitle),
		Keyphrases:   state.Keyphrases.Clone(),
		Turns:        state.Turns,
		MaxTurns:     cfg.MaxTurns,
		InputEnabled: state.Phase == PhaseChatting,
		Notice:       notice(state, cfg),
	}

	if v.Messages == nil {
		v.Messages = []ai.Message{}
	}
	if v.Suggestions == nil || !v.InputEnabled {
		v.Suggestions = []string{}
	}

	if r != nil {
		v.Banner = fmt.Sprintf("Thank you for visiting! Please reach out to %s with any comments or feedback. Each visitor is limited to %d messages.",
			r.Intro.Email, cfg.MaxTurns)
		v.Placeholder = fmt.Sprintf("Ask me about %s!", r.Intro.Name)
	}

	return v
}

func notice(state State, cfg Config) string {
	switch {
	case state.Phase == PhaseFailed || errors.Is(state.LastError, ErrContextMissing):
		return noticeContextMissing
	case state.Phase == PhaseEnded:
		return noticeEnded
	case state.Phase == PhaseLimitReached:
		return fmt.Sprintf("You have passed your limit of %d messages. In order to keep this service free, there is a %d message limit per visitor.",
			cfg.MaxTurns, cfg.MaxTurns)
	case state.LastError != nil:
		return noticeAPI
	}
	return ""
}

func projectTitle(p resume.Project) string       { return p.Title }
func experienceTitle(e resume.Experience) string { return e.Title }

func panel[E panelItem](ranked []ranking.Ranked[E], title func(E) string) []PanelEntry {
	out := make([]PanelEntry, 0, len(ranked))
	for i, r := range ranked {
		out = append(out, PanelEntry{
			Rank:        i + 1,
			Heading:     r.Entry.Heading(),
			Title:       title(r.Entry),
			Org:         r.Entry.Org(),
			Period:      r.Entry.Period(),
			Description: r.Entry.Body(),
			Score:       r.Score,
			Matched:     slices.Clone(r.Matched),
		})
	}
	return out
}

// Preview ranks the résumé against text without talking to the model.
func Preview(r *resume.Resume, text string, cfg Config) View {
	cfg = cfg.WithDefaults()

	state := NewState()
	state.Keyphrases = keyphrase.Extract(text, state.Keyphrases)
	if r != nil {
		state.RelevantProjects = ranking.Top(ranking.Rank(r.Projects, state.Keyphrases), cfg.PanelSize)
		state.RelevantExperience = ranking.Top(ranking.Rank(r.Experience, state.Keyphrases), cfg.PanelSize)
	}
	return Render(state, r, cfg)
}
