// ABOUTME: Admin CLI for the solvedbot database
// ABOUTME: Loads config, opens the shared SQLite store and dispatches subcommands

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/2389/solvedbot/internal/config"
	"github.com/2389/solvedbot/internal/logging"
	"github.com/2389/solvedbot/internal/store"
)

const banner = `
           _               _ _           _
 ___  ___ | |_   _____  __| | |__   ___ | |_
/ __|/ _ \| \ \ / / _ \/ _' | '_ \ / _ \| __|
\__ \ (_) | |\ V /  __/ (_| | |_) | (_) | |_
|___/\___/|_| \_/ \___|\__,_|_.__/ \___/ \__|
`

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	if !isCommand(cmd) {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cmd, args); err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd string, args []string) error {
	// A missing .env file is normal
	_ = godotenv.Load()

	cfg, err := config.LoadOrDefault(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	if !store.DriverAvailable(cfg.Database.Driver) {
		return fmt.Errorf("database driver %q is not compiled into this binary", cfg.Database.Driver)
	}

	st, err := store.Shared(store.Options{
		Path:               cfg.Database.Path,
		Driver:             cfg.Database.Driver,
		EnforceForeignKeys: cfg.Database.EnforceForeignKeys,
		BusyTimeout:        cfg.Database.BusyTimeout,
		Logger:             logger,
	})
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.CloseShared(); err != nil {
			logger.Error("closing store", "error", err)
		}
	}()

	a := &admin{store: st, out: os.Stdout, dbPath: cfg.Database.Path}
	return a.dispatch(ctx, cmd, args)
}

// getConfigPath returns the path to the solvedbot config file.
// Uses SOLVEDBOT_CONFIG env var if set, otherwise $XDG_CONFIG_HOME/solvedbot/config.yaml.
func getConfigPath() string {
	if envPath := os.Getenv("SOLVEDBOT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "solvedbot", "config.yaml")
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println()
	fmt.Println("Usage: solvedbot-admin <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  init                                 Create the database and schema")
	fmt.Println("  add-user <handle>                    Register a tracked user")
	fmt.Println("  add-server <name>                    Register a chat server")
	fmt.Println("  add-channel <name> <server-id>       Register a channel on a server")
	fmt.Println("  map <handle> <channel-id> <server-id> Subscribe a user to a channel")
	fmt.Println("  solved <handle> [problem-id...]      Replace a user's solved problems")
	fmt.Println("  channels <handle>                    List a user's channels")
	fmt.Println("  members <channel-id>                 List users mapped to a channel")
	fmt.Println("  whois <handle>                       Show a user's record")
	fmt.Println("  users                                List all users")
	fmt.Println("  demo                                 Load sample data and print user1's channels")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  SOLVEDBOT_CONFIG                Config file path (default: $XDG_CONFIG_HOME/solvedbot/config.yaml)")
	fmt.Println("  SOLVEDBOT_DATABASE_PATH         SQLite file (default: db.sqlite3)")
	fmt.Println("  SOLVEDBOT_DATABASE_DRIVER       sqlite (pure Go) or sqlite3 (cgo)")
	fmt.Println("  SOLVEDBOT_ENFORCE_FOREIGN_KEYS  Reject dangling channel/server ids")
	fmt.Println("  SOLVEDBOT_LOG_LEVEL             debug, info, warn, error")
	fmt.Println()
}
