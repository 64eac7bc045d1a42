package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyhold/internal/config/watcher"
)

// Run drives the application until Shutdown is called or a quit key
// (Escape or Ctrl+C) is pressed, in which case it returns ErrQuit.
func (app *Application) Run() error {
	if app.term == nil {
		return ErrNoTerminal
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.term.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer app.term.Shutdown()
	// Held keys get their done callbacks before the terminal goes away.
	defer app.releaseAll()

	return app.eventLoop()
}

// eventLoop is the main application loop.
func (app *Application) eventLoop() error {
	events := app.term.Events(app.done)

	ticker := time.NewTicker(app.cfg.TickInterval())
	defer ticker.Stop()

	var (
		changes <-chan watcher.Event
		errs    <-chan error
	)
	if app.watcher != nil {
		changes = app.watcher.Events()
		errs = app.watcher.Errors()
	}

	app.render()
	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := app.handleTerminalEvent(ev); err != nil {
				return err
			}

		case now := <-ticker.C:
			app.tick(now)

		case change := <-changes:
			app.handleFileChange(change)

		case err := <-errs:
			app.log.Warn("file watcher: %v", err)
		}
	}
}

// handleTerminalEvent routes one terminal event. It returns ErrQuit for a
// quit key.
func (app *Application) handleTerminalEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if isQuitKey(e) {
			return ErrQuit
		}
		if down, ok := app.term.Translate(e); ok {
			app.report(app.hub.PublishKeyDown(down))
		}
	case *tcell.EventResize:
		app.term.Screen().Sync()
		app.render()
	}
	return nil
}

func isQuitKey(e *tcell.EventKey) bool {
	switch e.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return e.Modifiers()&tcell.ModCtrl != 0 && (e.Rune() == 'c' || e.Rune() == 'C')
	}
	return false
}

// tick releases lapsed keys, advances held ones and redraws.
func (app *Application) tick(now time.Time) {
	for _, up := range app.term.Expire(now) {
		app.report(app.hub.PublishKeyUp(up))
	}
	app.report(app.hub.PublishTick())
	app.render()
}

func (app *Application) releaseAll() {
	for _, up := range app.term.ReleaseAll(time.Now()) {
		app.report(app.hub.PublishKeyUp(up))
	}
}

func (app *Application) handleFileChange(ev watcher.Event) {
	app.log.Info("%s changed (%s), reloading", ev.Path, ev.Op)
	if err := app.Reload(); err != nil {
		app.report(err)
	}
}

// report logs a dispatch or reload error and keeps it for the status view.
func (app *Application) report(err error) {
	if err == nil {
		return
	}
	app.lastErr = err
	app.log.Warn("%v", err)
}

func (app *Application) render() {
	if app.term == nil {
		return
	}
	app.term.Draw(app.statusLines())
}

// statusLines describes the camera, the held keys and the counters.
func (app *Application) statusLines() []string {
	d := app.dispatcher
	lines := []string{
		fmt.Sprintf("keyhold  bindings: %d  mapper: %s", len(d.Keys()), app.cfg.Mapper),
		"camera   " + app.camera.String(),
	}

	var held []string
	for _, rs := range d.RunStates() {
		if rs.Held() {
			held = append(held, fmt.Sprintf("%s(%s)", rs.Key, rs.State))
		}
	}
	lines = append(lines, "held     "+strings.Join(held, " "))

	if m := d.Metrics(); m != nil {
		s := m.Snapshot()
		lines = append(lines, fmt.Sprintf("ticks %d  presses %d/%d  actions %d  errors %d",
			s.Ticks, s.PressesAccepted, s.PressesAccepted+s.PressesRejected, s.Actions, s.Errors))
	}

	if app.lastErr != nil {
		msg := "error: " + app.lastErr.Error()
		var rerr *ReloadError
		if errors.As(app.lastErr, &rerr) {
			msg = "reload failed: " + rerr.Err.Error()
		}
		lines = append(lines, msg)
	}

	lines = append(lines, "", bindingHelp(app), "Esc or Ctrl+C quits")
	return lines
}

// bindingHelp lists the bound keys with their descriptions.
func bindingHelp(app *Application) string {
	parts := make([]string, 0, len(app.dispatcher.Keys()))
	for _, k := range app.dispatcher.Keys() {
		b, ok := app.dispatcher.Lookup(k)
		if !ok {
			continue
		}
		if b.Description == "" {
			parts = append(parts, k)
			continue
		}
		parts = append(parts, k+" "+b.Description)
	}
	return strings.Join(parts, ", ")
}
