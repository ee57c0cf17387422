// Package config provides the typed options tree and the configuration store
// the resolver reads on every request.
package config

import (
	"time"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Options is the typed view of the configuration store.
type Options struct {
	Engine     ttypes.EngineType `yaml:"engine"`
	GTTS       GTTSOptions       `yaml:"gtts"`
	Piper      PiperOptions      `yaml:"piper"`
	Cache      CacheOptions      `yaml:"cache"`
	Dictionary DictionaryOptions `yaml:"dictionary"`
}

// GTTSOptions configures the remote provider tier.
type GTTSOptions struct {
	Enabled           bool          `yaml:"enabled"`
	Cache             bool          `yaml:"cache"`
	Timeout           time.Duration `yaml:"timeout"`
	Binary            string        `yaml:"binary"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

// PiperOptions configures the local subprocess tier.
type PiperOptions struct {
	Enabled    bool   `yaml:"enabled"`
	Cache      bool   `yaml:"cache"`
	PythonPath string `yaml:"python_path"`
	ScriptPath string `yaml:"script_path"`
}

// CacheOptions configures where synthesized audio is kept.
type CacheOptions struct {
	Persistent     bool   `yaml:"persistent"`
	Dir            string `yaml:"dir"`
	DedupeInflight bool   `yaml:"dedupe_inflight"`
}

// DictionaryOptions configures the pre-recorded audio dictionary.
type DictionaryOptions struct {
	Enabled      bool              `yaml:"enabled"`
	Root         string            `yaml:"root"`
	Exclude      []string          `yaml:"exclude"`
	ExactFolders map[string]string `yaml:"exact_folders"`
	ShortFolders map[string]string `yaml:"short_folders"`
}

// Default values
const (
	DefaultTimeoutSec = 5
	DefaultGTTSBinary = "gtts-cli"
)

// DefaultOptions returns the options used when the store has no value set.
func DefaultOptions() Options {
	return Options{
		Engine: ttypes.EngineGoogle,
		GTTS: GTTSOptions{
			Enabled: true,
			Cache:   true,
			Timeout: DefaultTimeoutSec * time.Second,
			Binary:  DefaultGTTSBinary,
		},
		Piper: PiperOptions{
			Enabled: true,
			Cache:   true,
		},
		Dictionary: DictionaryOptions{
			ExactFolders: map[string]string{},
			ShortFolders: map[string]string{},
		},
	}
}
