package dispatcher

import (
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// BuiltinFunc is a predefined action reached by numeric id.
type BuiltinFunc func(ctrl keymap.Controller, params keymap.Params, ev key.Event)

// BuiltinTable looks up built-in actions. The dispatcher only reads it.
type BuiltinTable interface {
	Lookup(id int) (BuiltinFunc, bool)
}

// BuiltinMap is a BuiltinTable backed by a map.
type BuiltinMap map[int]BuiltinFunc

// Lookup implements BuiltinTable.
func (m BuiltinMap) Lookup(id int) (BuiltinFunc, bool) {
	fn, ok := m[id]
	if !ok || fn == nil {
		return nil, false
	}
	return fn, true
}
