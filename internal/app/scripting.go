package app

import (
	"errors"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyhold/internal/logging"
	"github.com/dshills/keyhold/internal/plugin/lua"
)

// setupFunc is called once after a script loads, if the script defines it.
const setupFunc = "setup"

// registerLogFunc exposes log(msg) to scripts. Messages go to the
// "script" component at info level.
func registerLogFunc(state *lua.State, log *logging.Logger) {
	log = log.WithComponent("script")
	state.RegisterFunc("log", func(L *glua.LState) int {
		log.Info("%s", L.CheckString(1))
		return 0
	})
}

// runSetup calls the script's setup function. A script without one is fine.
func runSetup(state *lua.State) error {
	if _, err := state.CallGlobal(setupFunc); err != nil && !errors.Is(err, lua.ErrFunctionNotFound) {
		return err
	}
	return nil
}

// registerCameraModule exposes c to scripts as the global "camera" table.
func registerCameraModule(state *lua.State, c *Camera) {
	state.RegisterModule("camera", map[string]glua.LGFunction{
		"move": func(L *glua.LState) int {
			c.Move(float64(L.OptNumber(1, 0)), float64(L.OptNumber(2, 0)))
			return 0
		},
		"zoom": func(L *glua.LState) int {
			c.ZoomBy(float64(L.CheckNumber(1)))
			return 0
		},
		"rotate": func(L *glua.LState) int {
			c.Rotate(float64(L.CheckNumber(1)))
			return 0
		},
		"reset": func(L *glua.LState) int {
			c.Reset()
			return 0
		},
		"position": func(L *glua.LState) int {
			L.Push(glua.LNumber(c.X))
			L.Push(glua.LNumber(c.Y))
			return 2
		},
		"heading": func(L *glua.LState) int {
			L.Push(glua.LNumber(c.Yaw))
			return 1
		},
		"zoom_level": func(L *glua.LState) int {
			L.Push(glua.LNumber(c.Zoom))
			return 1
		},
	})
}
