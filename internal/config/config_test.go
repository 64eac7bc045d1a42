package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.TickInterval() != time.Second/60 {
		t.Errorf("TickInterval() = %s", cfg.TickInterval())
	}
	if cfg.ReleaseAfter != 120*time.Millisecond {
		t.Errorf("ReleaseAfter = %s", cfg.ReleaseAfter)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }, false},
		{"huge tick rate", func(c *Config) { c.TickRate = 5000 }, false},
		{"zero release", func(c *Config) { c.ReleaseAfter = 0 }, false},
		{"negative repeat delay", func(c *Config) { c.RepeatDelay = -time.Second }, false},
		{"zero repeat delay", func(c *Config) { c.RepeatDelay = 0 }, true},
		{"negative cache", func(c *Config) { c.MapperCache = -1 }, false},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"unknown mapper", func(c *Config) { c.Mapper = "qwerty" }, false},
		{"default mapper", func(c *Config) { c.Mapper = "default" }, true},
		{"script mapper without script", func(c *Config) { c.Mapper = "lua:names" }, false},
		{"script mapper", func(c *Config) { c.Mapper = "lua:names"; c.ScriptPath = "x.lua" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, expected nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

const sampleConfig = `
[dispatch]
tick_rate = 30
outside_main_context = true
metrics = false

[bindings]
path = "keys.toml"
script = "keys.lua"
mapper = "default"
mapper_cache = 64
watch = false
unknown = "ignored"

[terminal]
release_after = "250ms"
repeat_delay = 300

[logging]
level = "debug"
`

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadFromReader() = %v", err)
	}

	if cfg.TickRate != 30 || !cfg.OutsideMainContext || cfg.Metrics {
		t.Errorf("dispatch section not applied: %+v", cfg)
	}
	if cfg.BindingsPath != "keys.toml" || cfg.ScriptPath != "keys.lua" || cfg.Mapper != "default" {
		t.Errorf("bindings section not applied: %+v", cfg)
	}
	if cfg.MapperCache != 64 || cfg.Watch {
		t.Errorf("bindings section not applied: %+v", cfg)
	}
	if cfg.ReleaseAfter != 250*time.Millisecond {
		t.Errorf("ReleaseAfter = %s", cfg.ReleaseAfter)
	}
	if cfg.RepeatDelay != 300*time.Millisecond {
		t.Errorf("RepeatDelay = %s", cfg.RepeatDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if !cfg.PanicRecovery {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
		want error
	}{
		{"syntax", "[dispatch\ntick_rate = 1", nil},
		{"type", "[dispatch]\ntick_rate = \"fast\"", ErrTypeMismatch},
		{"bool type", "[bindings]\nwatch = 1", ErrTypeMismatch},
		{"duration", "[terminal]\nrelease_after = \"soon\"", ErrTypeMismatch},
		{"range", "[dispatch]\ntick_rate = 0", ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tt.toml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want == nil {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Errorf("expected *ParseError, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, expected %v", err, tt.want)
			}
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keyhold.toml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("KEYHOLD_LOG_LEVEL", "warn")
	t.Setenv("KEYHOLD_DISPATCH_TICK_RATE", "90")
	t.Setenv("KEYHOLD_TERMINAL_RELEASE_AFTER", "80ms")
	t.Setenv("KEYHOLD_BINDINGS_WATCH", "on")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, expected env override", cfg.LogLevel)
	}
	if cfg.TickRate != 90 {
		t.Errorf("TickRate = %d, expected env override", cfg.TickRate)
	}
	if cfg.ReleaseAfter != 80*time.Millisecond {
		t.Errorf("ReleaseAfter = %s", cfg.ReleaseAfter)
	}
	if !cfg.Watch {
		t.Error("Watch should be overridden to true")
	}
	if cfg.BindingsPath != "keys.toml" {
		t.Errorf("file settings should survive, BindingsPath = %q", cfg.BindingsPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if cfg.TickRate != Default().TickRate {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keyhold.toml")
	if err := os.WriteFile(path, []byte("[bindings]\nmapper = \"lua:map\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The script mapper is only valid once the override supplies a script.
	if _, err := Load(path); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Load() without script = %v, expected ErrInvalidConfig", err)
	}

	cfg, err := Load(path, func(c *Config) { c.ScriptPath = "map.lua" })
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.ScriptPath != "map.lua" || cfg.Mapper != "lua:map" {
		t.Errorf("override not applied: %+v", cfg)
	}
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("KEYTEST_SCRIPT", "cb.lua")
	t.Setenv("KEYTEST_DISPATCH_METRICS", "false")
	t.Setenv("KEYTEST_ALONE", "x")

	m, err := NewEnvLoader("KEYTEST_").Load()
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := getByPath(m, "bindings.script"); !ok || v != "cb.lua" {
		t.Errorf("bindings.script = %v", v)
	}
	if v, ok := getByPath(m, "dispatch.metrics"); !ok || v != false {
		t.Errorf("dispatch.metrics = %v", v)
	}
	if _, ok := m["alone"]; ok {
		t.Error("variables without a setting part should be skipped")
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"yes", true},
		{"OFF", false},
		{"1", int64(1)},
		{"0", int64(0)},
		{"2.5", 2.5},
		{"150ms", 150 * time.Millisecond},
		{"names", "names"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.in); got != tt.want {
			t.Errorf("parseValue(%q) = %v (%T), expected %v (%T)", tt.in, got, got, tt.want, tt.want)
		}
	}
}
