package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-drift/compositor/pkg/trace"
)

const fadeScenario = `
name: fade
frames: 12
elements:
  - id: 1
    in_active: true
    in_pending: true
animations:
  - element: 1
    property: opacity
    duration: 160ms
    from: [0]
    to: [1]
`

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecuteHelp(t *testing.T) {
	out := captureOutput(t)
	if err := execute(nil); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"run", "inspect", "check", "version"} {
		if !strings.Contains(out.String(), "  "+name) {
			t.Errorf("help does not list %q:\n%s", name, out)
		}
	}
}

func TestExecuteUnknownCommand(t *testing.T) {
	captureOutput(t)
	if err := execute([]string{"bogus"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestExecuteCommandHelp(t *testing.T) {
	out := captureOutput(t)
	if err := execute([]string{"run", "--help"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "animtrace run [--config FILE]") {
		t.Errorf("run help missing usage:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out := captureOutput(t)
	if err := execute([]string{"--version"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "animtrace "+Version) {
		t.Errorf("version output = %q", out)
	}
	if !strings.Contains(out.String(), "trace format 1") {
		t.Errorf("version output = %q", out)
	}
}

func TestParseRunArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		files   []string
		opts    runOptions
		wantErr bool
	}{
		{
			name:  "defaults",
			args:  []string{"a.yaml"},
			files: []string{"a.yaml"},
			opts:  runOptions{debugPort: -1},
		},
		{
			name:  "all flags",
			args:  []string{"--config", "s.yaml", "--trace", "out.at", "--debug-port", "0", "--hold", "--live", "--plain", "--verbose", "a.yaml"},
			files: []string{"a.yaml"},
			opts: runOptions{
				configPath: "s.yaml", tracePath: "out.at", debugPort: 0,
				hold: true, live: true, plain: true, verbose: true,
			},
		},
		{name: "missing value", args: []string{"a.yaml", "--trace"}, wantErr: true},
		{name: "bad port", args: []string{"--debug-port", "http"}, wantErr: true},
		{name: "port out of range", args: []string{"--debug-port", "70000"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, opts, err := parseRunArgs(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(files, tt.files) {
				t.Errorf("files = %v, want %v", files, tt.files)
			}
			if opts != tt.opts {
				t.Errorf("opts = %+v, want %+v", opts, tt.opts)
			}
		})
	}
}

func TestRunRecordsTrace(t *testing.T) {
	out := captureOutput(t)
	scenario := writeFile(t, "fade.yaml", fadeScenario)
	tracePath := filepath.Join(t.TempDir(), "fade.at")

	if err := execute([]string{"run", "--plain", "--trace", tracePath, scenario}); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if !strings.Contains(text, "started:opacity@1") {
		t.Errorf("run output missing start event:\n%s", text)
	}
	if !strings.Contains(text, "finished:opacity@1") {
		t.Errorf("run output missing finish event:\n%s", text)
	}
	if !strings.Contains(text, "frames    12") {
		t.Errorf("run output missing summary:\n%s", text)
	}

	f, err := os.Open(tracePath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := trace.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 12 {
		t.Fatalf("trace holds %d records, want 12", len(records))
	}
	s := trace.Summarize(records)
	if s.Events["started"] != 1 || s.Events["finished"] != 1 {
		t.Errorf("trace events = %v", s.Events)
	}

	out.Reset()
	if err := execute([]string{"inspect", "--plain", tracePath}); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"frames       12", "started      1", "finished     1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestRunRequiresOneScenario(t *testing.T) {
	captureOutput(t)
	if err := execute([]string{"run"}); err == nil {
		t.Fatal("expected error without a scenario")
	}
}

func TestCheck(t *testing.T) {
	out := captureOutput(t)
	scenario := writeFile(t, "fade.yaml", fadeScenario)
	settings := writeFile(t, "settings.yaml", "schema: v1.1.0\nframe_interval: 8ms\n")

	if err := execute([]string{"check", "--config", settings, scenario}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "frame interval 8ms") {
		t.Errorf("check output = %q", out)
	}
	if !strings.Contains(out.String(), "12 frames, 1 elements, 1 animations") {
		t.Errorf("check output = %q", out)
	}

	bad := writeFile(t, "bad.yaml", strings.Replace(fadeScenario, "opacity", "colour", 1))
	if err := execute([]string{"check", bad}); err == nil {
		t.Error("expected error for unknown property")
	}
}
