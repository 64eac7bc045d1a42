package keymap

import (
	"fmt"
	"math"
	"strings"
)

// Spec is the declarative form of one binding, as read from a file.
// Callback fields hold references such as "lua:spin".
type Spec struct {
	Key string

	// Builtin is the built-in id, used when Action is empty.
	Builtin int

	// Action is a callback reference.
	Action string

	Validate string

	// Params holds inline static parameters.
	Params Params

	// ParamsRef is a callback reference producing parameters; it takes
	// precedence over Params.
	ParamsRef string

	Done string

	Description string
}

// IsBuiltin reports whether the spec names a built-in action.
func (s Spec) IsBuiltin() bool {
	return s.Action == ""
}

// hasCallbacks reports whether any field needs a resolver.
func (s Spec) hasCallbacks() bool {
	return s.Action != "" || s.Validate != "" || s.ParamsRef != "" || s.Done != ""
}

// CallbackResolver turns callback references into capabilities.
type CallbackResolver interface {
	ResolveAction(ref string) (ActionHandler, error)
	ResolveValidator(ref string) (Validator, error)
	ResolveParams(ref string) (ParamsProvider, error)
	ResolveDone(ref string) (CompletionHandler, error)
}

// ParseRef splits "scheme:name". A reference without a scheme returns an
// empty scheme and the whole string as name.
func ParseRef(ref string) (scheme, name string) {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexByte(ref, ':'); i > 0 {
		return ref[:i], ref[i+1:]
	}
	return "", ref
}

// Build resolves specs into a Set, keeping declaration order.
func Build(specs []Spec, r CallbackResolver) (*Set, error) {
	return build("<specs>", specs, r)
}

func build(source string, specs []Spec, r CallbackResolver) (*Set, error) {
	set := NewSet()
	for i, s := range specs {
		fail := func(err error) error {
			return &LoadError{Source: source, Index: i, Key: s.Key, Err: err}
		}

		if s.Key == "" {
			return nil, fail(ErrEmptyKey)
		}
		if set.Has(s.Key) {
			return nil, fail(ErrDuplicateKey)
		}
		if s.hasCallbacks() && r == nil {
			return nil, fail(ErrNoResolver)
		}

		var b Binding
		if s.IsBuiltin() {
			b.Action = Builtin(s.Builtin)
		} else {
			h, err := r.ResolveAction(s.Action)
			if err != nil {
				return nil, fail(fmt.Errorf("action %q: %w", s.Action, err))
			}
			b.Action = Callback(h)
		}

		if s.Validate != "" {
			v, err := r.ResolveValidator(s.Validate)
			if err != nil {
				return nil, fail(fmt.Errorf("validate %q: %w", s.Validate, err))
			}
			b.Validate = v
		}

		switch {
		case s.ParamsRef != "":
			p, err := r.ResolveParams(s.ParamsRef)
			if err != nil {
				return nil, fail(fmt.Errorf("params %q: %w", s.ParamsRef, err))
			}
			b.Params = p
		case s.Params != nil:
			b.Params = s.Params
		}

		if s.Done != "" {
			d, err := r.ResolveDone(s.Done)
			if err != nil {
				return nil, fail(fmt.Errorf("done %q: %w", s.Done, err))
			}
			b.Done = d
		}

		b.Description = s.Description
		if err := b.validate(); err != nil {
			return nil, fail(err)
		}
		set.Add(s.Key, b)
	}
	return set, nil
}

// specFromMap decodes one declared binding. Unrecognized fields are ignored.
func specFromMap(m map[string]any) (Spec, error) {
	var s Spec

	k, ok := m["key"].(string)
	if !ok || k == "" {
		return s, ErrEmptyKey
	}
	s.Key = k

	switch v := m["action"].(type) {
	case nil:
		return s, ErrNoAction
	case string:
		if strings.TrimSpace(v) == "" {
			return s, ErrNoAction
		}
		s.Action = v
	default:
		id, ok := toInt(v)
		if !ok {
			return s, fmt.Errorf("%w: action must be an integer id or a reference, got %T", ErrInvalidField, v)
		}
		s.Builtin = id
	}

	var err error
	if s.Validate, err = optionalString(m, "validate"); err != nil {
		return s, err
	}
	if s.Done, err = optionalString(m, "done"); err != nil {
		return s, err
	}
	if s.Description, err = optionalString(m, "description"); err != nil {
		return s, err
	}

	switch v := m["params"].(type) {
	case nil:
	case string:
		s.ParamsRef = v
	case map[string]any:
		s.Params = Params(v)
	default:
		return s, fmt.Errorf("%w: params must be a table or a reference, got %T", ErrInvalidField, v)
	}

	return s, nil
}

func optionalString(m map[string]any, field string) (string, error) {
	switch v := m[field].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidField, field, v)
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
