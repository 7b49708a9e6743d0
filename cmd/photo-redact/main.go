package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/photo-redact/internal/config"
	"github.com/ironsheep/photo-redact/internal/logging"
	"github.com/ironsheep/photo-redact/internal/server"
	"github.com/ironsheep/photo-redact/internal/textfind"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "photo-redact - MCP server for mosaic and blur redaction of photos")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: photo-redact [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintf(out, "  %s=debug    Log level (debug, info, warn, error)\n", config.EnvLogLevel)
	fmt.Fprintf(out, "  %s=DIR      Directory exports are written to\n", config.EnvExportDir)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "This server communicates via MCP protocol over stdin/stdout.")
	fmt.Fprintln(out, "Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Handle the bare subcommand forms before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			printVersion()
			return
		case "help":
			flag.CommandLine.SetOutput(os.Stdout)
			usage()
			return
		}
	}

	configPath := flag.String("config", "", "path to a JSON config file")
	showVersion := flag.Bool("version", false, "print version information")
	writeConfig := flag.String("write-config", "", "write the effective config to `path` and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		printVersion()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photo-redact: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		// Validate has already replaced invalid values with defaults.
		fmt.Fprintf(os.Stderr, "photo-redact: config: %v\n", err)
	}

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "photo-redact: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Logs go to stderr; stdout is for the MCP protocol
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	logger := logging.New(os.Stderr, level)
	logger.Debug("starting photo-redact",
		"version", Version,
		"built", BuildTime,
		"commit", GitCommit,
		"ocr", textfind.Available(),
		"export_dir", cfg.ExportDir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	srv := server.New(cfg, logger)
	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("photo-redact %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}
