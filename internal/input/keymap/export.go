package keymap

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// ExportJSON writes specs as {"bindings":[...]}, omitting empty fields.
func ExportJSON(specs []Spec) ([]byte, error) {
	doc := []byte(`{"bindings":[]}`)

	for i, s := range specs {
		obj, err := specJSON(s)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, s.Key, err)
		}
		doc, err = sjson.SetRawBytes(doc, "bindings.-1", obj)
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i, s.Key, err)
		}
	}
	return doc, nil
}

func specJSON(s Spec) ([]byte, error) {
	obj := []byte(`{}`)
	set := func(path string, value any) error {
		var err error
		obj, err = sjson.SetBytes(obj, path, value)
		return err
	}

	if err := set("key", s.Key); err != nil {
		return nil, err
	}
	var action any = s.Builtin
	if !s.IsBuiltin() {
		action = s.Action
	}
	if err := set("action", action); err != nil {
		return nil, err
	}

	optional := []struct {
		path  string
		value string
	}{
		{"validate", s.Validate},
		{"params", s.ParamsRef},
		{"done", s.Done},
		{"description", s.Description},
	}
	for _, f := range optional {
		if f.value == "" {
			continue
		}
		if err := set(f.path, f.value); err != nil {
			return nil, err
		}
	}

	if s.ParamsRef == "" && len(s.Params) > 0 {
		if err := set("params", map[string]any(s.Params)); err != nil {
			return nil, err
		}
	}
	return obj, nil
}
