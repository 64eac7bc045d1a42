// Package lua runs binding callbacks written in Lua.
//
// A State wraps a gopher-lua runtime with only the base, table, string and
// math libraries open, and with dofile, loadfile and load removed. Every
// call runs under a deadline; a script that runs past it fails with
// ErrExecutionTimeout instead of stalling the event loop.
//
// A Host resolves callback references from binding files against the
// functions a script defines. References are either "lua:name" or a bare
// global name:
//
//	[[binding]]
//	key = "Q"
//	action = "lua:spin"
//	validate = "lua:can_spin"
//
// Callbacks receive the controller (as userdata), the resolved params (as a
// table) and the originating event (as a table with code, key, rune and
// mods fields):
//
//	function spin(ctrl, params, ev)
//	    camera.rotate(params.speed or 1)
//	    if camera.heading() >= 360 then
//	        return false -- stop until the key is released
//	    end
//	end
//
// An action returning false cancels the hold. A validator accepts only when
// it returns a truthy value. A params function returning anything other
// than a table yields empty params.
//
// # Usage
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(100 * time.Millisecond))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoFile("bindings.lua"); err != nil {
//	    return err
//	}
//	set, err := keymap.LoadFile("bindings.toml", lua.NewHost(state))
package lua
