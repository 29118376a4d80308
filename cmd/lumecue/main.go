// lumecue: MCP server for theatrical DMX lighting.
//
// Exposes the lighting-control service's projects, fixtures, scenes and
// cue lists as MCP tools, with a DMX channel allocation engine for
// patching fixtures without address conflicts.
//
// Usage:
//
//	lumecue serve    # Start MCP server (stdio transport)
//	lumecue update   # Update to the latest version
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/lumecue/lumecue/internal/config"
	lcserver "github.com/lumecue/lumecue/internal/server"
	"github.com/lumecue/lumecue/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("lumecue v%s\n", lcserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml (default: ~/.lumecue/config.toml)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *configPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}

	s, cleanup, err := lcserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	return server.ServeStdio(s)
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. Best-effort — network failures
// are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(lcserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s → v%s\n"+
				"  Run: lumecue update\n"+
				"  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "Checking for updates...\n")

	result := updater.CheckVersion(lcserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Downloading...\n")

	if err := updater.SelfUpdate(lcserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "Restart lumecue to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `lumecue v%s — DMX lighting MCP server

Usage:
  lumecue serve [-config path]   Start the MCP server (stdio transport)
  lumecue update                 Update to the latest version

Configuration:
  Settings are read from ~/.lumecue/config.toml (or -config). The
  endpoint, token, and default project can also come from the
  LUMECUE_ENDPOINT, LUMECUE_TOKEN, and LUMECUE_PROJECT environment
  variables.

  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "lumecue": {
        "command": "lumecue",
        "args": ["serve"]
      }
    }
  }
`, lcserver.Version)
}
