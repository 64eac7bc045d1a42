package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhold/internal/dispatcher"
	"github.com/dshills/keyhold/internal/input/keymap"
	"github.com/dshills/keyhold/internal/terminal"
)

const testScript = `
function spin(ctrl, params, ev)
	camera.rotate(params.speed)
	if camera.heading() >= 90 then
		return false
	end
end

function vim(ev)
	if ev.rune == "j" then
		return "down"
	end
	if ev.rune == "k" then
		return "up"
	end
	return ""
end
`

const testBindings = `
[[binding]]
key = "R"
action = "lua:spin"
params = { speed = 45 }
description = "spin"

[[binding]]
key = "W"
action = 1
params = { speed = 2 }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

// newTestApp creates an application with an initialized simulation screen.
func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	opts.NoWatch = true
	if opts.LogOutput == nil {
		opts.LogOutput = io.Discard
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	term := terminal.New(tcell.NewSimulationScreen("UTF-8"))
	if err := term.Init(); err != nil {
		t.Fatalf("terminal Init() = %v", err)
	}
	if err := app.SetTerminal(term); err != nil {
		t.Fatalf("SetTerminal() = %v", err)
	}
	t.Cleanup(func() {
		term.Shutdown()
		app.Shutdown()
	})
	return app
}

func press(t *testing.T, app *Application, r rune) {
	t.Helper()
	if err := app.handleTerminalEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)); err != nil {
		t.Fatalf("handleTerminalEvent(%q) = %v", r, err)
	}
}

func TestNewApplication(t *testing.T) {
	app := newTestApp(t, Options{})

	d := app.Dispatcher()
	if !d.Installed() || !d.Attached() {
		t.Fatal("expected default bindings to be installed")
	}
	if got := len(d.Keys()); got != 8 {
		t.Errorf("len(Keys()) = %d, expected 8", got)
	}
	if app.Camera().Zoom != 1 {
		t.Errorf("Zoom = %v, expected 1", app.Camera().Zoom)
	}
	if app.Watcher() != nil {
		t.Error("watcher should be disabled")
	}
	if app.IsRunning() {
		t.Error("expected IsRunning() to be false before Run()")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Options{LogLevel: "loud", NoWatch: true, LogOutput: io.Discard})
	var ierr *InitError
	if !errors.As(err, &ierr) || ierr.Component != "config" {
		t.Fatalf("New() = %v, expected config InitError", err)
	}
}

func TestHoldMovesCamera(t *testing.T) {
	app := newTestApp(t, Options{})
	cam := app.Camera()

	press(t, app, 'w')
	if s, _ := app.Dispatcher().State("W"); s != dispatcher.Pressed {
		t.Fatalf("State(W) = %s, expected pressed", s)
	}

	now := time.Now()
	for i := 0; i < 3; i++ {
		app.tick(now)
	}
	if !approx(cam.Y, 3*MoveStep) {
		t.Errorf("Y = %v, expected %v", cam.Y, 3*MoveStep)
	}

	// The key lapses before the tick, so the camera stays put.
	app.tick(now.Add(2 * time.Second))
	if s, _ := app.Dispatcher().State("W"); s != dispatcher.Released {
		t.Errorf("State(W) = %s, expected released", s)
	}
	if !approx(cam.Y, 3*MoveStep) {
		t.Errorf("Y = %v after release, expected %v", cam.Y, 3*MoveStep)
	}
}

func TestRepeatIsNotRedelivered(t *testing.T) {
	app := newTestApp(t, Options{})

	press(t, app, 'w')
	press(t, app, 'w')
	press(t, app, 'W')

	s := app.Dispatcher().Metrics().Snapshot()
	if s.PressesAccepted != 1 {
		t.Errorf("PressesAccepted = %d, expected 1", s.PressesAccepted)
	}
}

func TestUnboundKey(t *testing.T) {
	app := newTestApp(t, Options{})
	press(t, app, 'p')
	app.tick(time.Now())

	if *app.Camera() != *NewCamera() {
		t.Errorf("camera moved: %s", app.Camera())
	}
	if s := app.Dispatcher().Metrics().Snapshot(); s.Unbound != 1 {
		t.Errorf("Unbound = %d, expected 1", s.Unbound)
	}
}

func TestQuitKeys(t *testing.T) {
	app := newTestApp(t, Options{})

	events := []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone),
		tcell.NewEventKey(tcell.KeyRune, 'c', tcell.ModCtrl),
	}
	for _, ev := range events {
		if err := app.handleTerminalEvent(ev); !errors.Is(err, ErrQuit) {
			t.Errorf("handleTerminalEvent(%s) = %v, expected ErrQuit", ev.Name(), err)
		}
	}
}

func TestLuaBindings(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(t, Options{
		BindingsPath: writeFile(t, dir, "bindings.toml", testBindings),
		ScriptPath:   writeFile(t, dir, "bindings.lua", testScript),
	})
	d := app.Dispatcher()

	if keys := d.Keys(); len(keys) != 2 || keys[0] != "R" || keys[1] != "W" {
		t.Fatalf("Keys() = %v, expected [R W]", keys)
	}

	press(t, app, 'r')
	now := time.Now()
	for i := 0; i < 3; i++ {
		app.tick(now)
	}

	if !approx(app.Camera().Yaw, 90) {
		t.Errorf("Yaw = %v, expected 90", app.Camera().Yaw)
	}
	if s, _ := d.State("R"); s != dispatcher.Ignored {
		t.Errorf("State(R) = %s, expected ignored", s)
	}

	press(t, app, 'w')
	app.tick(now)
	// Facing east, forward is +X; speed 2 from the file.
	if !approx(app.Camera().X, 2*MoveStep) {
		t.Errorf("X = %v, expected %v", app.Camera().X, 2*MoveStep)
	}
}

func TestScriptMapper(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "keyhold.toml", `
[bindings]
mapper = "lua:vim"
mapper_cache = 16
`)
	bindings := writeFile(t, dir, "bindings.toml", `
[[binding]]
key = "down"
action = 2

[[binding]]
key = "up"
action = 1
`)
	app := newTestApp(t, Options{
		ConfigPath:   cfgPath,
		BindingsPath: bindings,
		ScriptPath:   writeFile(t, dir, "bindings.lua", testScript),
	})

	press(t, app, 'j')
	app.tick(time.Now())
	if !approx(app.Camera().Y, -MoveStep) {
		t.Errorf("Y = %v, expected %v", app.Camera().Y, -MoveStep)
	}
	if s, _ := app.Dispatcher().State("down"); s != dispatcher.Pressed {
		t.Errorf("State(down) = %s, expected pressed", s)
	}
}

func TestReloadFailureKeepsBindings(t *testing.T) {
	dir := t.TempDir()
	bindings := writeFile(t, dir, "bindings.toml", testBindings)
	app := newTestApp(t, Options{
		BindingsPath: bindings,
		ScriptPath:   writeFile(t, dir, "bindings.lua", testScript),
	})

	writeFile(t, dir, "bindings.toml", "[[binding]]\nkey = \"R\"\naction = \"lua:missing\"\n")
	err := app.Reload()
	var rerr *ReloadError
	if !errors.As(err, &rerr) {
		t.Fatalf("Reload() = %v, expected ReloadError", err)
	}
	if rerr.Path != bindings {
		t.Errorf("Path = %q, expected %q", rerr.Path, bindings)
	}
	if keys := app.Dispatcher().Keys(); len(keys) != 2 {
		t.Errorf("Keys() = %v, expected the previous bindings", keys)
	}

	// The old script is still usable.
	press(t, app, 'r')
	app.tick(time.Now())
	if !approx(app.Camera().Yaw, 45) {
		t.Errorf("Yaw = %v, expected 45", app.Camera().Yaw)
	}
}

func TestReloadResetsHeldKeys(t *testing.T) {
	app := newTestApp(t, Options{})

	press(t, app, 'w')
	if err := app.Reload(); err != nil {
		t.Fatalf("Reload() = %v", err)
	}
	if s, _ := app.Dispatcher().State("W"); s != dispatcher.Released {
		t.Errorf("State(W) = %s, expected released", s)
	}

	// The terminal still holds W, so a repeat does not press it again.
	press(t, app, 'w')
	app.tick(time.Now())
	if app.Camera().Y != 0 {
		t.Errorf("Y = %v, expected 0", app.Camera().Y)
	}
}

func TestStatusLines(t *testing.T) {
	app := newTestApp(t, Options{})
	press(t, app, 'e')

	text := strings.Join(app.statusLines(), "\n")
	for _, want := range []string{"bindings: 8", "camera", "E(pressed)", "E rotate right", "quits"} {
		if !strings.Contains(text, want) {
			t.Errorf("status missing %q:\n%s", want, text)
		}
	}
}

func TestRunQuitsOnEscape(t *testing.T) {
	app, err := New(Options{NoWatch: true, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := app.SetTerminal(terminal.New(screen)); err != nil {
		t.Fatalf("SetTerminal() = %v", err)
	}

	result := make(chan error, 1)
	go func() { result <- app.Run() }()

	deadline := time.After(5 * time.Second)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case err := <-result:
			if !errors.Is(err, ErrQuit) {
				t.Errorf("Run() = %v, expected ErrQuit", err)
			}
			return
		case <-ticker.C:
			if app.IsRunning() {
				screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
			}
		case <-deadline:
			t.Fatal("Run() did not return")
		}
	}
}

func TestRunWithoutTerminal(t *testing.T) {
	app, err := New(Options{NoWatch: true, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer app.Shutdown()

	if err := app.Run(); !errors.Is(err, ErrNoTerminal) {
		t.Errorf("Run() = %v, expected ErrNoTerminal", err)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	app, err := New(Options{NoWatch: true, LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	app.Shutdown()
	app.Shutdown()

	if app.Dispatcher().Installed() {
		t.Error("bindings should be removed after Shutdown")
	}
}

func TestExportBindings(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		bindings string
		keys     []string
	}{
		{"defaults", "", []string{"W", "S", "A", "D", "Z", "X", "Q", "E"}},
		{"file", testBindings, []string{"R", "W"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{}
			if tt.bindings != "" {
				opts.BindingsPath = writeFile(t, dir, "bindings.toml", tt.bindings)
				opts.ScriptPath = writeFile(t, dir, "bindings.lua", testScript)
			}
			app := newTestApp(t, opts)

			out := filepath.Join(dir, tt.name+".json")
			if err := app.ExportBindings(out); err != nil {
				t.Fatalf("ExportBindings() = %v", err)
			}
			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatal(err)
			}
			specs, err := keymap.ReadJSON(data)
			if err != nil {
				t.Fatalf("ReadJSON() = %v\n%s", err, data)
			}
			if len(specs) != len(tt.keys) {
				t.Fatalf("len(specs) = %v, expected %v", len(specs), len(tt.keys))
			}
			for i, k := range tt.keys {
				if specs[i].Key != k {
					t.Errorf("specs[%d].Key = %v, expected %v", i, specs[i].Key, k)
				}
			}
		})
	}
}

func TestScriptSetupAndLog(t *testing.T) {
	dir := t.TempDir()
	var logs strings.Builder
	app := newTestApp(t, Options{
		ScriptPath: writeFile(t, dir, "setup.lua", `
function setup()
	camera.rotate(30)
	log("camera ready")
end
`),
		LogOutput: &logs,
	})

	if !approx(app.Camera().Yaw, 30) {
		t.Errorf("Yaw = %v, expected %v", app.Camera().Yaw, 30)
	}
	if !strings.Contains(logs.String(), "camera ready") {
		t.Errorf("log output = %q, expected the script message", logs.String())
	}
}

func TestScriptSetupError(t *testing.T) {
	dir := t.TempDir()
	_, err := New(Options{
		ScriptPath: writeFile(t, dir, "setup.lua", `function setup() error("no camera") end`),
		NoWatch:    true,
		LogOutput:  io.Discard,
	})
	if err == nil {
		t.Fatal("New() = nil, expected the setup error")
	}
}

func TestWatcherListsFiles(t *testing.T) {
	dir := t.TempDir()
	bindings := writeFile(t, dir, "bindings.toml", testBindings)
	script := writeFile(t, dir, "bindings.lua", testScript)
	var logs strings.Builder
	app, err := New(Options{BindingsPath: bindings, ScriptPath: script, LogOutput: &logs})
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	t.Cleanup(app.Shutdown)

	if app.Watcher() == nil {
		t.Fatal("expected a watcher")
	}
	files := app.Watcher().WatchedFiles()
	if len(files) != 2 {
		t.Errorf("WatchedFiles() = %v, expected 2 files", files)
	}
	if !strings.Contains(logs.String(), "watching") {
		t.Errorf("log output = %q, expected the watched files", logs.String())
	}
}
