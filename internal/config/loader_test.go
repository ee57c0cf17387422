package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

func TestLoad_Defaults(t *testing.T) {
	opts := Load(MapStore{})

	if opts.Engine != ttypes.EngineGoogle {
		t.Errorf("Engine = %q, want gtts", opts.Engine)
	}
	if !opts.GTTS.Enabled || !opts.GTTS.Cache {
		t.Error("gtts should be enabled and cached by default")
	}
	if opts.GTTS.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", opts.GTTS.Timeout)
	}
	if opts.GTTS.Binary != "gtts-cli" {
		t.Errorf("Binary = %q", opts.GTTS.Binary)
	}
	if !opts.Piper.Enabled || !opts.Piper.Cache {
		t.Error("piper should be enabled and cached by default")
	}
	if opts.Cache.Persistent || opts.Cache.DedupeInflight {
		t.Error("persistent cache and dedupe should be off by default")
	}
	if opts.Dictionary.Enabled {
		t.Error("dictionary should be off by default")
	}
}

func TestLoad_Values(t *testing.T) {
	store := MapStore{
		KeyEngine:                 "Piper",
		KeyGTTSEnabled:            "false",
		KeyGTTSCache:              false,
		KeyGTTSTimeoutSec:         "1.5",
		KeyGTTSRequestsPerMinute:  30,
		KeyPiperPythonPath:        "/usr/bin/python3",
		KeyCachePersistent:        true,
		KeyDictionaryEnabled:      true,
		KeyDictionaryExclude:      []interface{}{"_old", "draft"},
		KeyDictionaryExactFolders: map[string]interface{}{"pt_BR": "Portuguese (Brazil)"},
		KeyDictionaryShortFolders: map[string]string{"de": "German"},
	}

	opts := Load(store)

	if opts.Engine != ttypes.EnginePiper {
		t.Errorf("Engine = %q, want piper", opts.Engine)
	}
	if opts.GTTS.Enabled || opts.GTTS.Cache {
		t.Error("gtts flags should be false")
	}
	if opts.GTTS.Timeout != 1500*time.Millisecond {
		t.Errorf("Timeout = %v", opts.GTTS.Timeout)
	}
	if opts.GTTS.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d", opts.GTTS.RequestsPerMinute)
	}
	if opts.Piper.PythonPath != "/usr/bin/python3" {
		t.Errorf("PythonPath = %q", opts.Piper.PythonPath)
	}
	if !opts.Cache.Persistent {
		t.Error("persistent should be true")
	}
	if got := strings.Join(opts.Dictionary.Exclude, ","); got != "_old,draft" {
		t.Errorf("Exclude = %q", got)
	}
	if opts.Dictionary.ExactFolders["pt_BR"] != "Portuguese (Brazil)" {
		t.Errorf("ExactFolders = %v", opts.Dictionary.ExactFolders)
	}
	if opts.Dictionary.ShortFolders["de"] != "German" {
		t.Errorf("ShortFolders = %v", opts.Dictionary.ShortFolders)
	}
}

func TestLoad_InvalidValuesKeepDefaults(t *testing.T) {
	store := MapStore{
		KeyGTTSEnabled:    "not-a-bool",
		KeyGTTSTimeoutSec: -3,
		KeyGTTSBinary:     "",
	}

	opts := Load(store)

	if !opts.GTTS.Enabled {
		t.Error("unparsable bool should keep the default")
	}
	if opts.GTTS.Timeout != 5*time.Second {
		t.Errorf("non-positive timeout should keep the default, got %v", opts.GTTS.Timeout)
	}
	if opts.GTTS.Binary != DefaultGTTSBinary {
		t.Errorf("empty binary should fall back to %q, got %q", DefaultGTTSBinary, opts.GTTS.Binary)
	}
}

func TestViperStore_SaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "ttsplayer.yml")
	if err := os.WriteFile(file, []byte("engine: gtts\ngtts:\n  timeout_sec: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	v := viper.New()
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	store := NewViperStore(v)
	if got := Load(store).GTTS.Timeout; got != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", got)
	}

	store.Set(KeyEngine, "piper")
	if err := store.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reread := viper.New()
	reread.SetConfigFile(file)
	if err := reread.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}
	if got := Load(NewViperStore(reread)).Engine; got != ttypes.EnginePiper {
		t.Errorf("Engine after save = %q, want piper", got)
	}
}

func TestViperStore_SaveWithoutFile(t *testing.T) {
	if err := NewViperStore(viper.New()).Save(); err == nil {
		t.Error("Save without a config file should fail")
	}
}
