package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
)

// logConfig is read from the environment only.
type logConfig struct {
	Level string `env:"TTSPLAYER_LOG_LEVEL" envDefault:"info"`
	File  string `env:"TTSPLAYER_LOG_FILE"`
}

// logOutput is where the default logger writes; --verbose tees it to stderr.
var logOutput io.Writer = io.Discard

func getLogFilePath(cfg logConfig) (string, error) {
	if cfg.File != "" {
		return cfg.File, nil
	}
	dir, err := gap.NewScope(gap.User, appName).CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName+".log"), nil
}

func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	// Log to file, if set
	logFile, err := getLogFilePath(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644) //nolint:gosec
	if err != nil {
		// log disabled
		return func() error { return nil }, nil
	}
	logOutput = f
	log.SetOutput(f)
	return f.Close, nil
}

// enableVerbose copies log output to stderr. Loggers created before this
// call keep their old output.
func enableVerbose() {
	log.SetOutput(io.MultiWriter(logOutput, os.Stderr))
	if log.GetLevel() > log.DebugLevel {
		log.SetLevel(log.DebugLevel)
	}
}
