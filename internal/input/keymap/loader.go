package keymap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
)

// tomlDocument is the TOML layout of a binding file.
type tomlDocument struct {
	Bindings []map[string]any `toml:"binding"`
}

// ReadTOML decodes declared bindings from TOML.
func ReadTOML(r io.Reader) ([]Spec, error) {
	return readTOML("<reader>", r)
}

func readTOML(source string, r io.Reader) ([]Spec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Source: source, Index: -1, Err: err}
	}

	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Source: source, Index: -1, Err: err}
	}

	specs := make([]Spec, 0, len(doc.Bindings))
	for i, m := range doc.Bindings {
		s, err := specFromMap(m)
		if err != nil {
			return nil, &LoadError{Source: source, Index: i, Key: s.Key, Err: err}
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// ReadJSON decodes declared bindings from JSON. The document is either an
// array of bindings or an object with a "bindings" array.
func ReadJSON(data []byte) ([]Spec, error) {
	return readJSON("<json>", data)
}

func readJSON(source string, data []byte) ([]Spec, error) {
	if !gjson.ValidBytes(data) {
		return nil, &LoadError{Source: source, Index: -1, Err: errors.New("invalid JSON")}
	}

	list := gjson.ParseBytes(data)
	if list.IsObject() {
		list = list.Get("bindings")
	}
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, &LoadError{Source: source, Index: -1, Err: fmt.Errorf("%w: bindings must be an array", ErrInvalidField)}
	}

	var (
		specs []Spec
		err   error
	)
	i := 0
	list.ForEach(func(_, value gjson.Result) bool {
		m, ok := value.Value().(map[string]any)
		if !ok {
			err = &LoadError{Source: source, Index: i, Err: fmt.Errorf("%w: binding must be an object", ErrInvalidField)}
			return false
		}
		s, specErr := specFromMap(m)
		if specErr != nil {
			err = &LoadError{Source: source, Index: i, Key: s.Key, Err: specErr}
			return false
		}
		specs = append(specs, s)
		i++
		return true
	})
	if err != nil {
		return nil, err
	}
	return specs, nil
}

// ReadFile decodes a .toml or .json binding file.
func ReadFile(path string) ([]Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading binding file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return readTOML(path, bytes.NewReader(data))
	case ".json":
		return readJSON(path, data)
	default:
		return nil, &LoadError{Source: path, Index: -1, Err: ErrUnknownFormat}
	}
}

// LoadFile reads a binding file and resolves it into a Set.
func LoadFile(path string, r CallbackResolver) (*Set, error) {
	specs, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return build(path, specs, r)
}
