package dispatcher

import (
	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// ResolveParams produces the parameters for one validation or action call.
//
// A nil provider or nil static mapping yields an empty mapping. Static
// Params are returned as they are. Any other provider is called with the
// controller and event every time and its result is returned unchanged.
func ResolveParams(p keymap.ParamsProvider, ctrl keymap.Controller, ev key.Event) (keymap.Params, error) {
	switch v := p.(type) {
	case nil:
		return keymap.Params{}, nil
	case keymap.Params:
		if v == nil {
			return keymap.Params{}, nil
		}
		return v, nil
	default:
		return v.Params(ctrl, ev)
	}
}
