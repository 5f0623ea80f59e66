package cmd

import (
	"fmt"

	"github.com/go-drift/compositor/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate settings and scenario files",
		Long: `Validate scenario files, and optionally a settings file, without running
them. Every animation in a scenario is built once to catch bad curves and
timing functions.

Flags:
  --config FILE   Settings file to validate`,
		Usage: "animtrace check [--config FILE] <scenario.yaml>...",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	files, opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if opts.configPath == "" && len(files) == 0 {
		return fmt.Errorf("nothing to check\n\nUsage: animtrace check [--config FILE] <scenario.yaml>...")
	}
	if opts.configPath != "" {
		s, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s: ok (schema %s, frame interval %s)\n", opts.configPath, s.Schema, s.FrameInterval.Std())
	}
	for _, path := range files {
		sc, err := config.LoadScenario(path)
		if err != nil {
			return err
		}
		for i, a := range sc.Animations {
			if _, err := a.Build(i+1, i+1); err != nil {
				return fmt.Errorf("%s: animations[%d]: %w", path, i, err)
			}
		}
		fmt.Fprintf(stdout, "%s: ok (%d frames, %d elements, %d animations)\n",
			path, sc.Frames, len(sc.Elements), len(sc.Animations))
	}
	return nil
}
