// Package render draws chat views in a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/spigell/ask-my-resume/internal/ai"
	"github.com/spigell/ask-my-resume/internal/chat"
)

type palette struct {
	title     *color.Color
	banner    *color.Color
	user      *color.Color
	assistant *color.Color
	heading   *color.Color
	dim       *color.Color
	warn      *color.Color
}

// Terminal writes views as plain text, coloured when enabled.
type Terminal struct {
	out io.Writer
	p   palette
}

func NewTerminal(out io.Writer, colored bool) *Terminal {
	p := palette{
		title:     color.New(color.FgHiCyan, color.Bold),
		banner:    color.New(color.FgCyan),
		user:      color.New(color.FgGreen, color.Bold),
		assistant: color.New(color.FgMagenta, color.Bold),
		heading:   color.New(color.FgYellow, color.Bold),
		dim:       color.New(color.Faint),
		warn:      color.New(color.FgRed),
	}

	for _, c := range []*color.Color{p.title, p.banner, p.user, p.assistant, p.heading, p.dim, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return &Terminal{out: out, p: p}
}

func (t *Terminal) Header(v chat.View) {
	t.p.title.Fprintln(t.out, v.Title)
	if v.Banner != "" {
		t.p.banner.Fprintln(t.out, v.Banner)
	}
	fmt.Fprintln(t.out)
}

// Messages prints the conversation starting at index from, so callers can
// print only what is new since the last view.
func (t *Terminal) Messages(v chat.View, from int) {
	if from < 0 {
		from = 0
	}
	for _, m := range v.Messages[min(from, len(v.Messages)):] {
		switch m.Role {
		case ai.RoleUser:
			t.p.user.Fprint(t.out, "you> ")
		default:
			t.p.assistant.Fprint(t.out, "assistant> ")
		}
		fmt.Fprintln(t.out, strings.TrimSpace(m.Content))
		fmt.Fprintln(t.out)
	}
}

// Panel prints the relevance side panel.
func (t *Terminal) Panel(v chat.View) {
	t.section("Relevant Projects (from keywords)", v.Projects)
	t.section("Relevant Experience (from keywords)", v.Experience)

	if v.Keyphrases.Len() > 0 {
		t.p.dim.Fprintf(t.out, "keyphrases: %s\n\n", strings.Join(v.Keyphrases.Sorted(), ", "))
	}
}

func (t *Terminal) section(title string, entries []chat.PanelEntry) {
	t.p.heading.Fprintln(t.out, title)
	if len(entries) == 0 {
		t.p.dim.Fprintln(t.out, "  nothing yet, ask a question first")
		fmt.Fprintln(t.out)
		return
	}

	for _, e := range entries {
		fmt.Fprintf(t.out, "  %d. %s", e.Rank, e.Heading)
		if e.Period != "" {
			t.p.dim.Fprintf(t.out, " (%s)", e.Period)
		}
		fmt.Fprintln(t.out)
		if len(e.Matched) > 0 {
			t.p.dim.Fprintf(t.out, "     matched: %s\n", strings.Join(e.Matched, ", "))
		}
	}
	fmt.Fprintln(t.out)
}

// Status prints the turn counter and any notice.
func (t *Terminal) Status(v chat.View) {
	t.p.dim.Fprintf(t.out, "messages used: %d/%d\n", v.Turns, v.MaxTurns)
	if v.Notice != "" {
		t.p.warn.Fprintln(t.out, v.Notice)
	}
}

func (t *Terminal) Info(format string, args ...any) {
	fmt.Fprintf(t.out, format+"\n", args...)
}

func (t *Terminal) Error(format string, args ...any) {
	t.p.warn.Fprintf(t.out, format+"\n", args...)
}
