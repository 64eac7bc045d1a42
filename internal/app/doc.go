// Package app wires the keyhold demo together.
//
// An Application owns one event hub, one dispatcher and a Camera
// controller. The terminal feeds key presses into the hub; each tick it
// first publishes the key releases the terminal has synthesized, then a
// tick, then redraws the status view. Bindings come from the built-in set
// or from a binding file whose callbacks live in a Lua script; both files
// are watched and reinstalled when they change.
//
// Everything that touches the dispatcher runs on the goroutine that calls
// Run.
package app
