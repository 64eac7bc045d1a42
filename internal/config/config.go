package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dshills/keyhold/internal/input/key"
	"github.com/dshills/keyhold/internal/logging"
)

// Config holds application settings.
type Config struct {
	// TickRate is the number of ticks per second.
	TickRate int

	// OutsideMainContext is passed through to the event sources on install.
	OutsideMainContext bool

	// PanicRecovery turns callback panics into errors.
	PanicRecovery bool

	// Metrics enables dispatcher metrics.
	Metrics bool

	// BindingsPath is a TOML or JSON binding file. Empty uses the built-in set.
	BindingsPath string

	// ScriptPath is a Lua file defining callbacks referenced by bindings.
	ScriptPath string

	// Mapper selects the key mapper: "default", "names" or "lua:<fn>".
	Mapper string

	// MapperCache is the LRU size used for script mappers. Zero disables caching.
	MapperCache int

	// Watch reloads bindings and script when they change on disk.
	Watch bool

	// ReleaseAfter is how long a terminal key stays down without a repeat.
	ReleaseAfter time.Duration

	// RepeatDelay is the extra time allowed between the first press and the
	// first auto-repeat.
	RepeatDelay time.Duration

	// LogLevel is one of debug, info, warn, error.
	LogLevel string

	// LogFile receives log output. Empty discards logs while the terminal
	// is in use.
	LogFile string
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		TickRate:      60,
		PanicRecovery: true,
		Metrics:       true,
		Mapper:        "names",
		MapperCache:   256,
		Watch:         true,
		ReleaseAfter:  120 * time.Millisecond,
		RepeatDelay:   500 * time.Millisecond,
		LogLevel:      "info",
	}
}

// TickInterval returns the duration of one tick.
func (c Config) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(c.TickRate)
}

// ScriptMapper returns the Lua function reference when Mapper names one.
func (c Config) ScriptMapper() (string, bool) {
	if strings.HasPrefix(c.Mapper, "lua:") {
		return c.Mapper, true
	}
	return "", false
}

// Validate checks every setting.
func (c Config) Validate() error {
	if c.TickRate < 1 || c.TickRate > 1000 {
		return fmt.Errorf("%w: tick rate %d out of range [1, 1000]", ErrInvalidConfig, c.TickRate)
	}
	if c.ReleaseAfter <= 0 {
		return fmt.Errorf("%w: release_after must be positive", ErrInvalidConfig)
	}
	if c.RepeatDelay < 0 {
		return fmt.Errorf("%w: repeat_delay must not be negative", ErrInvalidConfig)
	}
	if c.MapperCache < 0 {
		return fmt.Errorf("%w: mapper_cache must not be negative", ErrInvalidConfig)
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if _, ok := c.ScriptMapper(); ok {
		if c.ScriptPath == "" {
			return fmt.Errorf("%w: mapper %q needs a script", ErrInvalidConfig, c.Mapper)
		}
		return nil
	}
	if _, ok := key.MapperByName(c.Mapper); !ok {
		return fmt.Errorf("%w: unknown mapper %q", ErrInvalidConfig, c.Mapper)
	}
	return nil
}
