package dispatcher

// Hook observes run state transitions.
//
// Hooks run synchronously after the transition has been applied and must
// not install or remove bindings.
type Hook interface {
	OnTransition(k string, from, to State)
}

// HookFunc is a function adapter for Hook.
type HookFunc func(k string, from, to State)

// OnTransition implements Hook.
func (f HookFunc) OnTransition(k string, from, to State) {
	f(k, from, to)
}
