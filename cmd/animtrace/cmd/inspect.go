package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/go-drift/compositor/pkg/trace"
)

func init() {
	RegisterCommand(&Command{
		Name:  "inspect",
		Short: "Summarize a recorded trace",
		Long: `Read a trace written by "animtrace run --trace" and summarize it.

Flags:
  --frames   Also list every frame that carried events
  --plain    Disable colors and borders`,
		Usage: "animtrace inspect [--frames] [--plain] <trace>",
		Run:   runInspect,
	})
}

func runInspect(args []string) error {
	var (
		files  []string
		frames bool
		plain  bool
	)
	for _, arg := range args {
		switch arg {
		case "--frames":
			frames = true
		case "--plain":
			plain = true
		default:
			files = append(files, arg)
		}
	}
	if len(files) != 1 {
		return fmt.Errorf("exactly one trace file is required\n\nUsage: animtrace inspect [--frames] <trace>")
	}

	f, err := os.Open(files[0])
	if err != nil {
		return err
	}
	defer f.Close()
	records, err := trace.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", files[0], err)
	}

	table := &frameTable{w: stdout, plain: plain}
	if frames {
		for _, r := range records {
			if len(r.Events) == 0 {
				continue
			}
			for _, e := range r.Events {
				fmt.Fprintf(stdout, "%-6d %-10s %-9s %-16s element=%d group=%d\n",
					r.Frame, fmt.Sprintf("%.1fms", float64(r.Time)/1e6), e.Type, e.Property, e.Element, e.Group)
			}
		}
	}

	s := trace.Summarize(records)
	lines := []string{
		fmt.Sprintf("frames       %d", s.Frames),
		fmt.Sprintf("duration     %s", s.Duration),
		fmt.Sprintf("elements     %v", s.Elements),
		fmt.Sprintf("last active  %d", s.LastActive),
	}
	for _, name := range slices.Sorted(maps.Keys(s.Events)) {
		lines = append(lines, fmt.Sprintf("%-12s %d", name, s.Events[name]))
	}
	table.box(lines)
	return nil
}
