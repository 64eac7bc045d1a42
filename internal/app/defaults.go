package app

import "github.com/dshills/keyhold/internal/input/keymap"

// defaultBindings maps WASD to movement, Z/X to zoom and Q/E to rotation.
// The keys resolve the same way under the "default" and "names" mappers.
var defaultBindings = []struct {
	key  string
	id   int
	desc string
}{
	{"W", ActionMoveForward, "move forward"},
	{"S", ActionMoveBack, "move back"},
	{"A", ActionMoveLeft, "move left"},
	{"D", ActionMoveRight, "move right"},
	{"Z", ActionZoomIn, "zoom in"},
	{"X", ActionZoomOut, "zoom out"},
	{"Q", ActionRotateLeft, "rotate left"},
	{"E", ActionRotateRight, "rotate right"},
}

// DefaultBindings returns the built-in binding set.
func DefaultBindings() *keymap.Set {
	set := keymap.NewSet()
	for _, b := range defaultBindings {
		set.Add(b.key, keymap.NewBinding(keymap.Builtin(b.id)).WithDescription(b.desc))
	}
	return set
}

// DefaultSpecs returns the built-in bindings in declarative form.
func DefaultSpecs() []keymap.Spec {
	specs := make([]keymap.Spec, 0, len(defaultBindings))
	for _, b := range defaultBindings {
		specs = append(specs, keymap.Spec{Key: b.key, Builtin: b.id, Description: b.desc})
	}
	return specs
}
