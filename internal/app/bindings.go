package app

import (
	"os"

	"github.com/dshills/keyhold/internal/event"
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
	"github.com/dshills/keyhold/internal/plugin/lua"
)

// Reload loads the script and bindings again and installs them. Every key
// starts over Released. On error the previous bindings stay installed.
//
// Reload must not run concurrently with Run's loop; Run calls it itself
// when a watched file changes.
func (app *Application) Reload() error {
	set, mapper, script, err := app.loadBindings()
	if err != nil {
		return &ReloadError{Path: app.cfg.BindingsPath, Err: err}
	}

	if err := app.dispatcher.Install(set, mapper, app.cfg.OutsideMainContext); err != nil {
		if script != nil {
			_ = script.Close()
		}
		return &ReloadError{Path: app.cfg.BindingsPath, Err: err}
	}

	// Callbacks of the old set are gone from the dispatcher now.
	if app.script != nil {
		_ = app.script.Close()
	}
	app.script = script

	source := app.cfg.BindingsPath
	if source == "" {
		source = "built-in"
	}
	app.log.Info("bindings loaded from %s: %v", source, set.Keys())
	for _, t := range []event.Topic{event.TopicKeyDown, event.TopicKeyUp, event.TopicTick} {
		for _, sub := range app.hub.Subscriptions(t) {
			app.log.Debug("subscription %s on %s (outside main context: %v)", sub.ID(), t, sub.OutsideMainContext())
		}
	}
	return nil
}

// ExportBindings writes the configured bindings to path as JSON. The
// bindings file is read without resolving callbacks, so no script runs.
func (app *Application) ExportBindings(path string) error {
	specs := DefaultSpecs()
	if app.cfg.BindingsPath != "" {
		var err error
		specs, err = keymap.ReadFile(app.cfg.BindingsPath)
		if err != nil {
			return err
		}
	}
	data, err := keymap.ExportJSON(specs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	app.log.Info("exported %d bindings to %s", len(specs), path)
	return nil
}

// loadBindings builds a fresh script state, binding set and mapper. The
// caller owns the returned state.
func (app *Application) loadBindings() (*keymap.Set, key.Mapper, *lua.State, error) {
	var (
		state    *lua.State
		resolver keymap.CallbackResolver
		host     *lua.Host
	)
	if app.cfg.ScriptPath != "" {
		var err error
		state, err = app.loadScript(app.cfg.ScriptPath)
		if err != nil {
			return nil, nil, nil, err
		}
		host = lua.NewHost(state)
		resolver = host
	}

	fail := func(err error) (*keymap.Set, key.Mapper, *lua.State, error) {
		if state != nil {
			_ = state.Close()
		}
		return nil, nil, nil, err
	}

	set := DefaultBindings()
	if app.cfg.BindingsPath != "" {
		var err error
		set, err = keymap.LoadFile(app.cfg.BindingsPath, resolver)
		if err != nil {
			return fail(err)
		}
	}

	mapper, err := app.mapper(host)
	if err != nil {
		return fail(err)
	}
	return set, mapper, state, nil
}

func (app *Application) loadScript(path string) (*lua.State, error) {
	state, err := lua.NewState()
	if err != nil {
		return nil, err
	}
	registerCameraModule(state, app.camera)
	registerLogFunc(state, app.log)
	if err := state.DoFile(path); err != nil {
		_ = state.Close()
		return nil, err
	}
	if err := runSetup(state); err != nil {
		_ = state.Close()
		return nil, err
	}
	return state, nil
}

// mapper selects the configured mapper. Script mappers are cached.
func (app *Application) mapper(host *lua.Host) (key.Mapper, error) {
	ref, ok := app.cfg.ScriptMapper()
	if !ok {
		m, _ := key.MapperByName(app.cfg.Mapper)
		return m, nil
	}
	if host == nil {
		return nil, lua.ErrFunctionNotFound
	}
	m, err := host.Mapper(ref)
	if err != nil {
		return nil, err
	}
	if app.cfg.MapperCache == 0 {
		return m, nil
	}
	return key.CachedMapper(m, app.cfg.MapperCache)
}
