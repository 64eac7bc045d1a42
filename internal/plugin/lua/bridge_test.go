package lua

import (
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/input/keymap"
)

func TestBridgeToGoValue(t *testing.T) {
	state := newTestState(t)
	if err := state.DoString(`
		list = {1, 2, 3}
		rec = {name = "cam", speed = 1.5, on = true}
		mixed = {1, x = 2}
	`); err != nil {
		t.Fatal(err)
	}
	b := NewBridge(state.LuaState())

	list, ok := b.ToGoValue(state.GetGlobal("list")).([]any)
	if !ok || len(list) != 3 || list[2] != int64(3) {
		t.Errorf("list = %#v", list)
	}

	rec, ok := b.ToGoValue(state.GetGlobal("rec")).(map[string]any)
	if !ok || rec["name"] != "cam" || rec["speed"] != 1.5 || rec["on"] != true {
		t.Errorf("rec = %#v", rec)
	}

	mixed, ok := b.ToGoValue(state.GetGlobal("mixed")).(map[string]any)
	if !ok || len(mixed) != 2 || mixed["x"] != int64(2) {
		t.Errorf("mixed = %#v", mixed)
	}

	if b.ToGoValue(glua.LNil) != nil {
		t.Error("nil should convert to nil")
	}
}

func TestBridgeCircularTable(t *testing.T) {
	state := newTestState(t)
	if err := state.DoString(`loop = {}; loop.self = loop`); err != nil {
		t.Fatal(err)
	}
	b := NewBridge(state.LuaState())

	m, ok := b.ToGoValue(state.GetGlobal("loop")).(map[string]any)
	if !ok || m["self"] != nil {
		t.Errorf("circular reference should be cut, got %#v", m)
	}
}

func TestBridgeToLuaValue(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	tbl, ok := b.ToLuaValue(keymap.Params{"speed": 2, "tags": []string{"a", "b"}}).(*glua.LTable)
	if !ok {
		t.Fatal("params should become a table")
	}
	if tbl.RawGetString("speed") != glua.LNumber(2) {
		t.Errorf("speed = %v", tbl.RawGetString("speed"))
	}
	tags, ok := tbl.RawGetString("tags").(*glua.LTable)
	if !ok || tags.RawGetInt(2) != glua.LString("b") {
		t.Errorf("tags = %v", tbl.RawGetString("tags"))
	}

	type opaque struct{ n int }
	ud, ok := b.ToLuaValue(&opaque{n: 1}).(*glua.LUserData)
	if !ok || ud.Value.(*opaque).n != 1 {
		t.Errorf("unknown types should become userdata, got %v", ud)
	}
	if b.ToLuaValue(nil) != glua.LNil {
		t.Error("nil should convert to LNil")
	}
}

func TestBridgeEventTable(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())

	tbl := b.EventTable(key.NewRuneEvent('w', key.ModCtrl|key.ModShift))
	tests := []struct {
		field string
		want  glua.LValue
	}{
		{"code", glua.LNumber('W')},
		{"rune", glua.LString("w")},
		{"mods", glua.LString("Ctrl+Shift")},
		{"ctrl", glua.LTrue},
		{"shift", glua.LTrue},
		{"alt", glua.LFalse},
	}
	for _, tt := range tests {
		if got := tbl.RawGetString(tt.field); got != tt.want {
			t.Errorf("event.%s = %v, expected %v", tt.field, got, tt.want)
		}
	}

	special := b.EventTable(key.NewSpecialEvent(key.KeyUp, key.ModNone))
	if special.RawGetString("key") != glua.LString(key.KeyUp.String()) {
		t.Errorf("event.key = %v", special.RawGetString("key"))
	}
	if special.RawGetString("rune") != glua.LNil {
		t.Error("special keys should have no rune")
	}
}

func TestBridgeToParams(t *testing.T) {
	state := newTestState(t)
	b := NewBridge(state.LuaState())
	if err := state.DoString(`p = {speed = 4}; arr = {1, 2}`); err != nil {
		t.Fatal(err)
	}

	if got := b.ToParams(state.GetGlobal("p")); got["speed"] != int64(4) {
		t.Errorf("ToParams(p) = %v", got)
	}
	for _, lv := range []glua.LValue{glua.LNil, glua.LString("x"), state.GetGlobal("arr")} {
		got := b.ToParams(lv)
		if got == nil || len(got) != 0 {
			t.Errorf("ToParams(%v) = %v, expected empty params", lv, got)
		}
	}
}
