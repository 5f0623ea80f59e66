package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/engine"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	startStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	finishStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	abortStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

var frameColumns = []struct {
	title string
	width int
}{
	{"frame", 6},
	{"time", 10},
	{"commit", 7},
	{"tick", 5},
	{"events", 0},
}

// frameTable prints one row per frame.
type frameTable struct {
	w     io.Writer
	plain bool
}

func newFrameTable(w io.Writer, plain bool) *frameTable {
	t := &frameTable{w: w, plain: plain}
	cells := make([]string, len(frameColumns))
	for i, col := range frameColumns {
		cells[i] = pad(col.title, col.width)
	}
	fmt.Fprintln(w, t.style(headerStyle, strings.Join(cells, " ")))
	return t
}

func (t *frameTable) style(s lipgloss.Style, text string) string {
	if t.plain {
		return text
	}
	return s.Render(text)
}

func (t *frameTable) row(r engine.FrameResult) {
	commit := "-"
	if r.Sample.Flags.Committed {
		commit = "yes"
	}
	var events []string
	for _, ev := range r.Events {
		text := fmt.Sprintf("%s:%s@%d", ev.Type, ev.TargetProperty, ev.ElementID)
		switch ev.Type {
		case animation.EventStarted:
			text = t.style(startStyle, text)
		case animation.EventFinished:
			text = t.style(finishStyle, text)
		case animation.EventAborted, animation.EventTakeover:
			text = t.style(abortStyle, text)
		}
		events = append(events, text)
	}
	cells := []string{
		pad(fmt.Sprint(r.Sample.Frame), frameColumns[0].width),
		pad(fmt.Sprintf("%.1fms", float64(r.Sample.Timestamp)/1e6), frameColumns[1].width),
		pad(commit, frameColumns[2].width),
		pad(fmt.Sprint(r.Sample.Counts.ImplTicking), frameColumns[3].width),
		strings.Join(events, " "),
	}
	line := strings.TrimRight(strings.Join(cells, " "), " ")
	if len(r.Events) == 0 && r.Sample.Counts.ImplTicking == 0 {
		line = t.style(dimStyle, line)
	}
	fmt.Fprintln(t.w, line)
}

// box prints lines in a bordered block.
func (t *frameTable) box(lines []string) {
	text := strings.Join(lines, "\n")
	if !t.plain {
		text = summaryStyle.Render(text)
	}
	fmt.Fprintln(t.w, text)
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
