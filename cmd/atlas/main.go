package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ImalAyodya/atlas/internal/session"
	"github.com/ImalAyodya/atlas/internal/tui"
	"github.com/ImalAyodya/atlas/pkg/backend"
	"github.com/ImalAyodya/atlas/pkg/countries"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	apiURL := os.Getenv("ATLAS_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5000"
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("atlas " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "logout":
			return runLogout()
		}
	}

	logger, closeLogger, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLogger()

	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	tokens := session.NewFileStore(tokenPath)

	bc := backend.New(apiURL, "", logger)
	cc := countries.New(
		os.Getenv("ATLAS_COUNTRIES_URL"),
		os.Getenv("ATLAS_COUNTRIES_LEGACY_URL"),
		logger,
	)
	sess := session.New(bc, tokens, logger)

	app := tui.NewApp(sess, cc, bc, version)

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// newLogger builds the app logger. Logging goes to ~/.atlas/debug.log when
// ATLAS_DEBUG is set; otherwise it is discarded so it never corrupts the
// terminal the TUI is drawing on.
func newLogger() (*zap.SugaredLogger, func(), error) {
	if os.Getenv("ATLAS_DEBUG") == "" {
		return zap.NewNop().Sugar(), func() {}, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("get home dir: %w", err)
	}
	logPath := filepath.Join(home, ".atlas", "debug.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{logPath}
	cfg.ErrorOutputPaths = []string{logPath}
	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), func() { logger.Sync() }, nil //nolint:errcheck
}

func runLogout() error {
	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return fmt.Errorf("token store: %w", err)
	}
	tokens := session.NewFileStore(tokenPath)
	if tokens.Read() == "" {
		fmt.Println("Already signed out.")
		return nil
	}
	if err := tokens.Clear(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

func printHelp() {
	fmt.Print(`atlas — browse countries of the world from your terminal

Usage:
  atlas             launch the browser
  atlas logout      discard the saved session token
  atlas version     print the version
  atlas help        show this help

Environment:
  ATLAS_API_URL                 favorites/auth backend (default http://localhost:5000)
  ATLAS_COUNTRIES_URL           primary country data API
  ATLAS_COUNTRIES_LEGACY_URL    fallback country data API
  ATLAS_TOKEN                   session token override (read-only)
  ATLAS_DEBUG                   when set, log to ~/.atlas/debug.log
`)
}
