// Package dispatcher turns key-down, key-up and tick signals into actions.
//
// A Dispatcher owns one installed binding set at a time. For every key in
// the set it keeps a run state that moves between three values:
//
//	Released - initial; the key is up or was never accepted
//	Pressed  - an accepted press; the action runs once per tick
//	Ignored  - the action asked to stop; nothing runs until key-up
//
// # Transitions
//
//	Released --keydown, validate ok--> Pressed   (binding and event captured)
//	Released --keydown, validate no--> Released  (event dropped)
//	Pressed  --action returns Cancel-> Ignored
//	Pressed  --keyup-----------------> Released  (done is called)
//	Ignored  --keyup-----------------> Released  (done is not called)
//
// Unbound keys, unknown built-in ids and rejected presses are silent.
// Callback errors are returned to whoever delivered the event, wrapped in a
// *CallbackError. A failing key during a tick never stops the other held
// keys from running in the same tick.
//
// # Event Sources
//
// The dispatcher attaches to an event.KeySource and an event.TickSource the
// first time a non-empty set is installed and detaches on Remove. Its
// handlers are registered with those sources and are not callable directly.
//
// # Concurrency
//
// A Dispatcher is not safe for concurrent use. Sources must deliver events
// one at a time, which event.Hub does when it is published from a single
// loop.
//
// # Usage
//
//	hub := event.NewHub()
//	d := dispatcher.New(dispatcher.Sources{Keys: hub, Ticks: hub},
//	    dispatcher.BuiltinMap{42: forward}, camera, dispatcher.DefaultConfig())
//
//	set := keymap.NewSet().Add("W", keymap.NewBinding(keymap.Builtin(42)))
//	if err := d.Install(set, nil, false); err != nil {
//	    return err
//	}
//	defer d.Remove()
package dispatcher
