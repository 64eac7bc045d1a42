// Package config loads keyhold's application settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Default()
//  2. a TOML file
//  3. KEYHOLD_* environment variables
//
// Command-line flags are applied by the caller after Load.
//
// # File Format
//
//	[dispatch]
//	tick_rate = 60
//	outside_main_context = false
//	panic_recovery = true
//	metrics = true
//
//	[bindings]
//	path = "bindings.toml"
//	script = "bindings.lua"
//	mapper = "names"        # "default", "names" or "lua:<fn>"
//	mapper_cache = 256
//	watch = true
//
//	[terminal]
//	release_after = "120ms"
//	repeat_delay = "500ms"
//
//	[logging]
//	level = "info"
//	file = ""
//
// # Environment
//
// KEYHOLD_SECTION_NAME sets section.name, e.g. KEYHOLD_DISPATCH_TICK_RATE=30.
// KEYHOLD_LOG_LEVEL, KEYHOLD_BINDINGS and KEYHOLD_SCRIPT are shorthands for
// logging.level, bindings.path and bindings.script.
package config
