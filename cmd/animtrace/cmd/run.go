package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-drift/compositor/pkg/animation"
	"github.com/go-drift/compositor/pkg/config"
	"github.com/go-drift/compositor/pkg/engine"
	"github.com/go-drift/compositor/pkg/errors"
	"github.com/go-drift/compositor/pkg/trace"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Replay a scenario frame by frame",
		Long: `Replay a scenario file through a compositor and print one row per frame.

By default frames run on a simulated clock, as fast as possible. With --live
the compositor reads the system clock and frames are paced by the frame
interval from the settings.

Flags:
  --config FILE      Settings file (default: built-in settings)
  --trace FILE       Record every frame to a CBOR trace file
  --debug-port PORT  Serve the debug endpoints while running (0 picks a port)
  --hold             Keep the debug server up after the run until interrupted
  --live             Pace frames with the system clock
  --plain            Disable colors and borders
  --verbose          Log frame and host activity to stderr`,
		Usage: "animtrace run [--config FILE] [--trace FILE] [--debug-port PORT] [--hold] [--live] [--plain] [--verbose] <scenario.yaml>",
		Run:   runRun,
	})
}

type runOptions struct {
	configPath string
	tracePath  string
	debugPort  int
	hold       bool
	live       bool
	plain      bool
	verbose    bool
}

func parseRunArgs(args []string) ([]string, runOptions, error) {
	opts := runOptions{debugPort: -1}
	var files []string
	value := func(i int, flag string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", flag)
		}
		return args[i+1], nil
	}
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "--config":
			v, err := value(i, arg)
			if err != nil {
				return nil, opts, err
			}
			opts.configPath = v
			i++
		case "--trace":
			v, err := value(i, arg)
			if err != nil {
				return nil, opts, err
			}
			opts.tracePath = v
			i++
		case "--debug-port":
			v, err := value(i, arg)
			if err != nil {
				return nil, opts, err
			}
			port, err := strconv.Atoi(v)
			if err != nil || port < 0 || port > 65535 {
				return nil, opts, fmt.Errorf("--debug-port: invalid port %q", v)
			}
			opts.debugPort = port
			i++
		case "--hold":
			opts.hold = true
		case "--live":
			opts.live = true
		case "--plain":
			opts.plain = true
		case "--verbose":
			opts.verbose = true
		default:
			files = append(files, arg)
		}
	}
	return files, opts, nil
}

func runRun(args []string) error {
	files, opts, err := parseRunArgs(args)
	if err != nil {
		return err
	}
	if len(files) != 1 {
		return fmt.Errorf("exactly one scenario file is required\n\nUsage: animtrace run [flags] <scenario.yaml>")
	}

	settings := config.Default()
	if opts.configPath != "" {
		if settings, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	sc, err := config.LoadScenario(files[0])
	if err != nil {
		return err
	}

	restore := setupLogging(opts.verbose, settings.Strict)
	defer restore()

	var engineOpts []engine.Option
	if !opts.live {
		engineOpts = append(engineOpts, engine.WithClock(animation.NewManualClock(time.Unix(0, 0))))
	}
	c, err := engine.New(settings, engineOpts...)
	if err != nil {
		return err
	}

	if opts.debugPort >= 0 {
		port, err := c.StartDebugServer(opts.debugPort)
		if err != nil {
			return err
		}
		defer c.StopDebugServer()
		fmt.Fprintf(stdout, "debug server listening on :%d\n", port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		enc       *trace.Encoder
		traceBuf  *bufio.Writer
		encodeErr error
	)
	if opts.tracePath != "" {
		f, err := os.Create(opts.tracePath)
		if err != nil {
			return fmt.Errorf("failed to create trace: %w", err)
		}
		defer f.Close()
		traceBuf = bufio.NewWriter(f)
		enc = trace.NewEncoder(traceBuf)
	}

	table := newFrameTable(stdout, opts.plain)
	err = c.RunScenario(ctx, sc, func(r engine.FrameResult) {
		table.row(r)
		if enc != nil && encodeErr == nil {
			encodeErr = enc.Encode(trace.NewRecord(r.Sample.Frame,
				animation.TimeTicks(r.Sample.Timestamp), r.Events, r.ActiveElements))
		}
	})
	if err != nil {
		return err
	}
	if encodeErr != nil {
		return encodeErr
	}
	if traceBuf != nil {
		if err := traceBuf.Flush(); err != nil {
			return fmt.Errorf("failed to write trace: %w", err)
		}
	}

	timeline := c.Trace().Snapshot()
	lines := []string{
		fmt.Sprintf("scenario  %s", sc.Name),
		fmt.Sprintf("frames    %d", c.FrameCount()),
		fmt.Sprintf("dropped   %d (threshold %.0fms)", timeline.DroppedFrames, timeline.ThresholdMs),
	}
	if opts.tracePath != "" {
		lines = append(lines, fmt.Sprintf("trace     %s", opts.tracePath))
	}
	table.box(lines)

	if opts.hold && opts.debugPort >= 0 {
		fmt.Fprintln(stdout, "holding debug server, press Ctrl-C to exit")
		<-ctx.Done()
	}
	return nil
}

// setupLogging installs the animation logger and error handler for a run
// and returns a function restoring the previous state.
func setupLogging(verbose, strict bool) func() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	prevLogger := animation.Logger()
	animation.SetLogger(logger)
	errors.SetHandler(&errors.LogHandler{Logger: logger, Verbose: verbose})
	prevStrict := errors.SetStrict(strict)
	return func() {
		animation.SetLogger(prevLogger)
		errors.SetHandler(nil)
		errors.SetStrict(prevStrict)
	}
}
