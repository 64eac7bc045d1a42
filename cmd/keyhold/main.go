// Package main is the entry point for the keyhold demo.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keyhold/internal/app"
	"github.com/dshills/keyhold/internal/logging"
	"github.com/dshills/keyhold/internal/terminal"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, exportPath := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if exportPath != "" {
		if err := application.ExportBindings(exportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to export bindings: %v\n", err)
			return 1
		}
		return 0
	}

	cfg := application.Config()
	term, err := terminal.Open(
		terminal.WithReleaseAfter(cfg.ReleaseAfter),
		terminal.WithRepeatDelay(cfg.RepeatDelay),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetTerminal(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set terminal: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() (app.Options, string) {
	var opts app.Options
	var exportPath string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "keyhold.toml", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "keyhold.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.BindingsPath, "bindings", "", "TOML or JSON binding file")
	flag.StringVar(&opts.BindingsPath, "b", "", "TOML or JSON binding file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua file with binding callbacks")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&opts.NoWatch, "no-watch", false, "Do not reload bindings when files change")
	flag.StringVar(&exportPath, "export-bindings", "", "Write the bindings as JSON to this path and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keyhold - hold-to-act key binding demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keyhold [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keyhold                                  Built-in WASD camera bindings\n")
		fmt.Fprintf(os.Stderr, "  keyhold -b keys.toml -script keys.lua    Bindings with Lua callbacks\n")
		fmt.Fprintf(os.Stderr, "  keyhold -log-level debug                 Log key transitions\n")
		fmt.Fprintf(os.Stderr, "  keyhold -b keys.toml -export-bindings keys.json\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keyhold %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if opts.LogLevel != "" && !logging.ValidLevel(opts.LogLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	if exportPath != "" {
		opts.NoWatch = true
	}

	return opts, exportPath
}
