package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/keyhold/internal/config"
	"github.com/dshills/keyhold/internal/config/watcher"
	"github.com/dshills/keyhold/internal/dispatcher"
	"github.com/dshills/keyhold/internal/event"
	"github.com/dshills/keyhold/internal/logging"
	"github.com/dshills/keyhold/internal/plugin/lua"
	"github.com/dshills/keyhold/internal/terminal"
)

// Options configures the application. Non-empty fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// BindingsPath is a TOML or JSON binding file.
	BindingsPath string

	// ScriptPath is a Lua file defining binding callbacks.
	ScriptPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogOutput receives log output instead of the configured log file.
	LogOutput io.Writer

	// NoWatch disables reloading on file changes.
	NoWatch bool
}

// override applies the non-empty options to cfg.
func (opts Options) override(cfg *config.Config) {
	if opts.BindingsPath != "" {
		cfg.BindingsPath = opts.BindingsPath
	}
	if opts.ScriptPath != "" {
		cfg.ScriptPath = opts.ScriptPath
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.NoWatch {
		cfg.Watch = false
	}
}

// Application is the central coordinator of the demo.
type Application struct {
	cfg config.Config
	log *logging.Logger

	hub        *event.Hub
	camera     *Camera
	dispatcher *dispatcher.Dispatcher
	term       *terminal.Terminal
	watcher    *watcher.Watcher

	// script is the Lua state backing the installed bindings, if any.
	script  *lua.State
	logFile *os.File

	lastErr error

	running     atomic.Bool
	done        chan struct{}
	stopOnce    sync.Once
	cleanupOnce sync.Once
}

// New creates an Application and installs its bindings.
func New(opts Options) (*Application, error) {
	app := &Application{
		done:   make(chan struct{}),
		camera: NewCamera(),
	}

	if err := app.bootstrap(opts); err != nil {
		app.cleanup()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap(opts Options) error {
	// 1. Configuration
	cfg, err := config.Load(opts.ConfigPath, opts.override)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	out := opts.LogOutput
	if out == nil {
		out = io.Discard
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return &InitError{Component: "log file", Err: err}
			}
			app.logFile = f
			out = f
		}
	}
	app.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Output: out,
		Prefix: "keyhold",
	})

	// 3. Event hub
	app.hub = event.NewHub()

	// 4. Dispatcher
	dcfg := dispatcher.DefaultConfig().WithPanicRecovery(cfg.PanicRecovery)
	if cfg.Metrics {
		dcfg = dcfg.WithMetrics()
	}
	app.dispatcher = dispatcher.New(
		dispatcher.Sources{Keys: app.hub, Ticks: app.hub},
		Builtins(),
		app.camera,
		dcfg,
	)
	app.dispatcher.SetLogger(app.log)
	transitions := app.log.WithComponent("keys")
	app.dispatcher.AddHook(dispatcher.HookFunc(func(k string, from, to dispatcher.State) {
		transitions.Debug("%s: %s -> %s", k, from, to)
	}))

	// 5. Bindings
	if err := app.Reload(); err != nil {
		return &InitError{Component: "bindings", Err: err}
	}

	// 6. File watcher
	if cfg.Watch {
		if err := app.startWatcher(); err != nil {
			// Non-fatal: bindings just won't reload.
			app.log.Warn("file watcher disabled: %v", err)
		}
	}

	return nil
}

func (app *Application) startWatcher() error {
	paths := app.watchedPaths()
	if len(paths) == 0 {
		return nil
	}
	w, err := watcher.New()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			_ = w.Close()
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}
	app.watcher = w
	app.log.Info("watching %v", w.WatchedFiles())
	return nil
}

func (app *Application) watchedPaths() []string {
	var paths []string
	for _, p := range []string{app.cfg.BindingsPath, app.cfg.ScriptPath} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// SetTerminal sets the input source and display.
// Must be called before Run().
func (app *Application) SetTerminal(t *terminal.Terminal) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.term = t
	return nil
}

// Shutdown stops Run and releases resources once it has returned.
// It is safe to call more than once and from any goroutine.
func (app *Application) Shutdown() {
	app.stopOnce.Do(func() { close(app.done) })
	if !app.running.Load() {
		app.cleanup()
	}
}

// cleanup closes resources in reverse initialization order.
func (app *Application) cleanup() {
	app.cleanupOnce.Do(func() {
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.dispatcher != nil {
			app.dispatcher.Remove()
		}
		if app.hub != nil {
			app.hub.Close()
		}
		if app.script != nil {
			_ = app.script.Close()
			app.script = nil
		}
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// IsRunning returns true if Run is executing.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}

// Hub returns the event hub.
func (app *Application) Hub() *event.Hub {
	return app.hub
}

// Dispatcher returns the dispatcher.
func (app *Application) Dispatcher() *dispatcher.Dispatcher {
	return app.dispatcher
}

// Camera returns the controller.
func (app *Application) Camera() *Camera {
	return app.camera
}

// Watcher returns the file watcher (may be nil).
func (app *Application) Watcher() *watcher.Watcher {
	return app.watcher
}

// LastError returns the most recent dispatch or reload error.
func (app *Application) LastError() error {
	return app.lastErr
}
