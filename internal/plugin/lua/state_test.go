package lua

import (
	"errors"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func newTestState(t *testing.T, opts ...StateOption) *State {
	t.Helper()
	state, err := NewState(opts...)
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	t.Cleanup(func() { _ = state.Close() })
	return state
}

func TestStateDoString(t *testing.T) {
	state := newTestState(t)

	if err := state.DoString(`x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if v := state.GetGlobal("x"); v != glua.LNumber(2) {
		t.Errorf("x = %v, expected 2", v)
	}

	if err := state.DoString(`this is not lua`); err == nil {
		t.Error("expected syntax error")
	}
}

func TestStateUnsafeGlobalsRemoved(t *testing.T) {
	state := newTestState(t)

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "io", "os", "require"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("%s should not be available, got %s", name, v.Type())
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("%s should be available", name)
		}
	}
}

func TestNewStateStackEmpty(t *testing.T) {
	state := newTestState(t)
	if top := state.LuaState().GetTop(); top != 0 {
		t.Errorf("GetTop() = %v, expected %v", top, 0)
	}
}

func TestStateCall(t *testing.T) {
	state := newTestState(t)
	if err := state.DoString(`
		function add(a, b) return a + b, "sum" end
		function nothing() end
	`); err != nil {
		t.Fatal(err)
	}

	rets, err := state.CallGlobal("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(rets) != 2 || rets[0] != glua.LNumber(5) || rets[1] != glua.LString("sum") {
		t.Errorf("Call() = %v", rets)
	}

	rets, err = state.CallGlobal("nothing")
	if err != nil || rets == nil || len(rets) != 0 {
		t.Errorf("Call(nothing) = %v, %v; expected empty slice", rets, err)
	}

	if state.LuaState().GetTop() != 0 {
		t.Errorf("stack not balanced, top = %d", state.LuaState().GetTop())
	}
}

func TestStateCallErrors(t *testing.T) {
	state := newTestState(t)
	if err := state.DoString(`
		value = 3
		function fail() error("boom") end
	`); err != nil {
		t.Fatal(err)
	}

	if _, err := state.CallGlobal("missing"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound, got %v", err)
	}
	if _, err := state.CallGlobal("value"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound for non-function, got %v", err)
	}
	if _, err := state.CallGlobal("fail"); err == nil {
		t.Error("expected runtime error")
	}
	if state.LuaState().GetTop() != 0 {
		t.Errorf("stack not balanced after error, top = %d", state.LuaState().GetTop())
	}
}

func TestStateTimeout(t *testing.T) {
	state := newTestState(t, WithExecutionTimeout(50*time.Millisecond))
	if err := state.DoString(`function spin() while true do end end`); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	_, err := state.CallGlobal("spin")
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("expected ErrExecutionTimeout, got %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Errorf("timeout took too long: %s", time.Since(start))
	}

	if err := state.DoString(`y = 1`); err != nil {
		t.Errorf("state should be usable after a timeout, got %v", err)
	}
}

func TestStateRegisterModule(t *testing.T) {
	state := newTestState(t)
	var got float64
	state.RegisterModule("probe", map[string]glua.LGFunction{
		"record": func(L *glua.LState) int {
			got = float64(L.CheckNumber(1))
			return 0
		},
	})
	state.RegisterFunc("double", func(L *glua.LState) int {
		L.Push(L.CheckNumber(1) * 2)
		return 1
	})

	if err := state.DoString(`probe.record(double(21))`); err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("recorded %v, expected 42", got)
	}
}

func TestStateClosed(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatal(err)
	}
	if err := state.DoString(`function f() end`); err != nil {
		t.Fatal(err)
	}
	fn, err := state.Function("f")
	if err != nil {
		t.Fatal(err)
	}

	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if !state.IsClosed() {
		t.Error("expected closed state")
	}
	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString after close = %v", err)
	}
	if _, err := state.Call(fn); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call after close = %v", err)
	}
	if v := state.GetGlobal("f"); v != glua.LNil {
		t.Errorf("GetGlobal after close = %v", v)
	}
}
