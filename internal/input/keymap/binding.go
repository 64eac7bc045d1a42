package keymap

// Binding declares how one canonical key behaves.
type Binding struct {
	// Action runs once per tick while the key is held. Required.
	Action Action

	// Validate gates whether a press is accepted. Optional.
	Validate Validator

	// Params feeds Validate and Action. Optional; a Params value is used
	// as-is, any other provider is evaluated on every call.
	Params ParamsProvider

	// Done runs once per release of an accepted press. Optional.
	Done CompletionHandler

	// Description documents the binding.
	Description string
}

// NewBinding creates a binding for action.
func NewBinding(action Action) Binding {
	return Binding{Action: action}
}

// WithValidate sets the validator.
func (b Binding) WithValidate(v Validator) Binding {
	b.Validate = v
	return b
}

// WithValidateFunc sets a function validator.
func (b Binding) WithValidateFunc(f ValidatorFunc) Binding {
	if f == nil {
		b.Validate = nil
		return b
	}
	b.Validate = f
	return b
}

// WithParams sets static or dynamic parameters.
func (b Binding) WithParams(p ParamsProvider) Binding {
	b.Params = p
	return b
}

// WithParamsFunc sets a parameter function.
func (b Binding) WithParamsFunc(f ParamsFunc) Binding {
	if f == nil {
		b.Params = nil
		return b
	}
	b.Params = f
	return b
}

// WithDone sets the completion handler.
func (b Binding) WithDone(d CompletionHandler) Binding {
	b.Done = d
	return b
}

// WithDoneFunc sets a function completion handler.
func (b Binding) WithDoneFunc(f DoneFunc) Binding {
	if f == nil {
		b.Done = nil
		return b
	}
	b.Done = f
	return b
}

// WithDescription sets the description.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// validate checks that the binding can be installed.
func (b Binding) validate() error {
	if b.Action.IsZero() {
		return ErrNoAction
	}
	return nil
}
