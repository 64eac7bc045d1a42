package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

// Scheme is the callback reference scheme handled by Host.
const Scheme = "lua"

// Host resolves callback references to functions defined in a State.
type Host struct {
	state  *State
	bridge *Bridge
}

var _ keymap.CallbackResolver = (*Host)(nil)

// NewHost creates a resolver backed by state.
func NewHost(state *State) *Host {
	return &Host{
		state:  state,
		bridge: NewBridge(state.LuaState()),
	}
}

// State returns the backing state.
func (h *Host) State() *State {
	return h.state
}

// function resolves ref to a global function. Resolution happens once, when
// a binding file is built.
func (h *Host) function(ref string) (*lua.LFunction, string, error) {
	scheme, name := keymap.ParseRef(ref)
	if scheme != "" && scheme != Scheme {
		return nil, name, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
	fn, err := h.state.Function(name)
	if err != nil {
		return nil, name, err
	}
	return fn, name, nil
}

func (h *Host) call(name string, fn *lua.LFunction, args ...lua.LValue) ([]lua.LValue, error) {
	rets, err := h.state.Call(fn, args...)
	if err != nil {
		return nil, fmt.Errorf("lua %s: %w", name, err)
	}
	return rets, nil
}

func (h *Host) controller(ctrl keymap.Controller) lua.LValue {
	if ctrl == nil {
		return lua.LNil
	}
	ud := h.bridge.L.NewUserData()
	ud.Value = ctrl
	return ud
}

func first(rets []lua.LValue) lua.LValue {
	if len(rets) == 0 {
		return lua.LNil
	}
	return rets[0]
}

// ResolveAction implements keymap.CallbackResolver. The function is called
// as fn(ctrl, params, event); returning false cancels the hold.
func (h *Host) ResolveAction(ref string) (keymap.ActionHandler, error) {
	fn, name, err := h.function(ref)
	if err != nil {
		return nil, err
	}
	return keymap.ActionFunc(func(ctrl keymap.Controller, params keymap.Params, ev key.Event) (keymap.Result, error) {
		rets, err := h.call(name, fn, h.controller(ctrl), h.bridge.ToLuaValue(params), h.bridge.EventTable(ev))
		if err != nil {
			return keymap.Continue, err
		}
		if first(rets) == lua.LFalse {
			return keymap.Cancel, nil
		}
		return keymap.Continue, nil
	}), nil
}

// ResolveValidator implements keymap.CallbackResolver. The press is
// accepted when fn(ctrl, params, event) returns a truthy value.
func (h *Host) ResolveValidator(ref string) (keymap.Validator, error) {
	fn, name, err := h.function(ref)
	if err != nil {
		return nil, err
	}
	return keymap.ValidatorFunc(func(ctrl keymap.Controller, params keymap.Params, ev key.Event) (bool, error) {
		rets, err := h.call(name, fn, h.controller(ctrl), h.bridge.ToLuaValue(params), h.bridge.EventTable(ev))
		if err != nil {
			return false, err
		}
		return lua.LVAsBool(first(rets)), nil
	}), nil
}

// ResolveParams implements keymap.CallbackResolver. fn(ctrl, event) should
// return a table.
func (h *Host) ResolveParams(ref string) (keymap.ParamsProvider, error) {
	fn, name, err := h.function(ref)
	if err != nil {
		return nil, err
	}
	return keymap.ParamsFunc(func(ctrl keymap.Controller, ev key.Event) (keymap.Params, error) {
		rets, err := h.call(name, fn, h.controller(ctrl), h.bridge.EventTable(ev))
		if err != nil {
			return nil, err
		}
		return h.bridge.ToParams(first(rets)), nil
	}), nil
}

// ResolveDone implements keymap.CallbackResolver. fn(ctrl, event) is called
// on release; its results are ignored.
func (h *Host) ResolveDone(ref string) (keymap.CompletionHandler, error) {
	fn, name, err := h.function(ref)
	if err != nil {
		return nil, err
	}
	return keymap.DoneFunc(func(ctrl keymap.Controller, ev key.Event) error {
		_, err := h.call(name, fn, h.controller(ctrl), h.bridge.EventTable(ev))
		return err
	}), nil
}

// Mapper returns a key.Mapper backed by fn(event), which must return the
// canonical key string. A failing or non-string result maps to "" so the
// event matches no binding.
func (h *Host) Mapper(ref string) (key.Mapper, error) {
	fn, name, err := h.function(ref)
	if err != nil {
		return nil, err
	}
	return func(ev key.Event) string {
		rets, err := h.call(name, fn, h.bridge.EventTable(ev))
		if err != nil {
			return ""
		}
		s, ok := first(rets).(lua.LString)
		if !ok {
			return ""
		}
		return string(s)
	}, nil
}
