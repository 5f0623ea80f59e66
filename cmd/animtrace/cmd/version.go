package cmd

import (
	"fmt"

	"github.com/go-drift/compositor/pkg/config"
	"github.com/go-drift/compositor/pkg/trace"
	"golang.org/x/mod/semver"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Show the animtrace version and the file formats it reads and writes.",
		Usage: "animtrace version",
		Run:   runVersion,
	})
}

func runVersion(args []string) error {
	version := Version
	if !semver.IsValid(version) {
		version += " (not a semantic version)"
	}
	fmt.Fprintf(stdout, "animtrace %s (built %s)\n", version, BuildTime)
	fmt.Fprintf(stdout, "settings schema %s\n", config.SchemaVersion)
	fmt.Fprintf(stdout, "trace format %d\n", trace.Version)
	return nil
}
