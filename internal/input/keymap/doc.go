// Package keymap declares how canonical keys behave.
//
// A Binding pairs an Action with optional capabilities:
//
//	Action   - Builtin(id) into an external table, or Callback(handler)
//	Validate - gates whether a press is accepted
//	Params   - static Params or a ParamsProvider evaluated on every use
//	Done     - called once when an accepted press is released
//
// A Set maps canonical keys to Bindings and remembers declaration order.
// The Registry holds the active Set and answers lookups; an unknown key is
// a normal, silent miss.
//
// Sets can be built in code:
//
//	set := keymap.NewSet().
//	    Add("W", keymap.NewBinding(keymap.Builtin(1))).
//	    Add("Q", keymap.NewBinding(keymap.CallbackFunc(quit)).WithDone(onDone))
//
// or declared in TOML/JSON files and resolved with a CallbackResolver:
//
//	[[binding]]
//	key = "W"
//	action = 1
//	params = { speed = 0.5 }
//
//	[[binding]]
//	key = "E"
//	action = "lua:spin"
//	validate = "lua:can_spin"
package keymap
