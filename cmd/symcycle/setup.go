package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/symcycle/internal/config"
	"github.com/san-kum/symcycle/internal/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	logOut io.Closer
)

// setup resolves the configuration (defaults, then config file, then .env and
// SYMCYCLE_* variables, then explicit flags) and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	cfg = c

	logger, err = newLogger(cmd, cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	logger.Debug("config resolved", "command", cmd.Name(), "seed", cfg.Seed, "data", cfg.DataDir)
	return nil
}

func teardown() {
	if logOut != nil {
		logOut.Close()
		logOut = nil
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("data") {
		c.DataDir = dataDir
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		c.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		c.Log.File = logFile
	}
	if flags.Changed("fps") {
		c.View.FPS = frameRate
	}
	if flags.Changed("theme") {
		c.View.Theme = theme
	}
	if flags.Changed("width") {
		c.View.Width = winWidth
	}
	if flags.Changed("height") {
		c.View.Height = winHeight
	}
	if flags.Changed("addr") {
		c.Server.Addr = addr
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// newLogger writes to the configured log file, or to stderr for commands
// that do not own the terminal. The terminal view discards logs otherwise.
func newLogger(cmd *cobra.Command, lc config.LogConfig) (*slog.Logger, error) {
	var w io.Writer = os.Stderr
	switch {
	case lc.File != "":
		f, err := os.OpenFile(lc.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logOut = f
		w = f
	case ownsTerminal(cmd):
		if _, err := logging.ParseLevel(lc.Level); err != nil {
			return nil, err
		}
		return logging.Discard(), nil
	}
	return logging.New(w, lc.Level, lc.Format)
}

func ownsTerminal(cmd *cobra.Command) bool {
	return cmd.Name() == "live" || !cmd.HasParent()
}
