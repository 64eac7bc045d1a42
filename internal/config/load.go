package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "KEYHOLD_"

// Override adjusts a loaded configuration before it is validated, for
// settings that come from the command line.
type Override func(*Config)

// Load returns Default() overlaid with the TOML file at path, then the
// environment, then overrides. A missing file is not an error; an empty
// path skips the file.
func Load(path string, overrides ...Override) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			m, err := parse(path, data)
			if err != nil {
				return cfg, err
			}
			if err := apply(&cfg, m); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
		}
	}

	env, err := NewEnvLoader(EnvPrefix).Load()
	if err != nil {
		return cfg, err
	}
	if err := apply(&cfg, env); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	for _, o := range overrides {
		o(&cfg)
	}
	return cfg, cfg.Validate()
}

// LoadFromReader returns Default() overlaid with TOML read from r. The
// environment is not consulted.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	m, err := parse("<reader>", data)
	if err != nil {
		return cfg, err
	}
	if err := apply(&cfg, m); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func parse(source string, data []byte) (map[string]any, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		pe := &ParseError{Path: source, Err: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, _ = de.Position()
		}
		return nil, pe
	}
	return m, nil
}

// apply copies recognized settings from m into cfg. Unknown keys are ignored.
func apply(cfg *Config, m map[string]any) error {
	fields := []struct {
		path string
		set  func(any) error
	}{
		{"dispatch.tick_rate", intField(&cfg.TickRate)},
		{"dispatch.outside_main_context", boolField(&cfg.OutsideMainContext)},
		{"dispatch.panic_recovery", boolField(&cfg.PanicRecovery)},
		{"dispatch.metrics", boolField(&cfg.Metrics)},
		{"bindings.path", stringField(&cfg.BindingsPath)},
		{"bindings.script", stringField(&cfg.ScriptPath)},
		{"bindings.mapper", stringField(&cfg.Mapper)},
		{"bindings.mapper_cache", intField(&cfg.MapperCache)},
		{"bindings.watch", boolField(&cfg.Watch)},
		{"terminal.release_after", durationField(&cfg.ReleaseAfter)},
		{"terminal.repeat_delay", durationField(&cfg.RepeatDelay)},
		{"logging.level", stringField(&cfg.LogLevel)},
		{"logging.file", stringField(&cfg.LogFile)},
	}
	for _, f := range fields {
		v, ok := getByPath(m, f.path)
		if !ok {
			continue
		}
		if err := f.set(v); err != nil {
			return fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return nil
}

func intField(dst *int) func(any) error {
	return func(v any) error {
		switch n := v.(type) {
		case int64:
			*dst = int(n)
		case int:
			*dst = n
		case float64:
			if n != float64(int64(n)) {
				return fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, n)
			}
			*dst = int(n)
		default:
			return fmt.Errorf("%w: expected integer, got %T", ErrTypeMismatch, v)
		}
		return nil
	}
}

func boolField(dst *bool) func(any) error {
	return func(v any) error {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: expected boolean, got %T", ErrTypeMismatch, v)
		}
		*dst = b
		return nil
	}
}

func stringField(dst *string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
		}
		*dst = s
		return nil
	}
}

// durationField accepts a duration string or a number of milliseconds.
func durationField(dst *time.Duration) func(any) error {
	return func(v any) error {
		switch d := v.(type) {
		case time.Duration:
			*dst = d
		case string:
			parsed, err := time.ParseDuration(d)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			*dst = parsed
		case int64:
			*dst = time.Duration(d) * time.Millisecond
		default:
			return fmt.Errorf("%w: expected duration, got %T", ErrTypeMismatch, v)
		}
		return nil
	}
}
