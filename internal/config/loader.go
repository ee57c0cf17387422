package config

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cast"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Configuration keys
const (
	KeyEngine = "engine"

	KeyGTTSEnabled           = "gtts.enabled"
	KeyGTTSCache             = "gtts.cache"
	KeyGTTSTimeoutSec        = "gtts.timeout_sec"
	KeyGTTSBinary            = "gtts.binary"
	KeyGTTSRequestsPerMinute = "gtts.requests_per_minute"

	KeyPiperEnabled    = "piper.enabled"
	KeyPiperCache      = "piper.cache"
	KeyPiperPythonPath = "piper.python_path"
	KeyPiperScriptPath = "piper.script_path"

	KeyCachePersistent     = "cache.persistent"
	KeyCacheDir            = "cache.dir"
	KeyCacheDedupeInflight = "cache.dedupe_inflight"

	KeyDictionaryEnabled      = "dictionary.enabled"
	KeyDictionaryRoot         = "dictionary.root"
	KeyDictionaryExclude      = "dictionary.exclude"
	KeyDictionaryExactFolders = "dictionary.folders.exact"
	KeyDictionaryShortFolders = "dictionary.folders.short"
)

// Load reads the options from store, falling back to DefaultOptions for
// anything unset or unparsable. It never fails.
func Load(store Store) Options {
	opts := DefaultOptions()
	l := loader{store: store}

	if l.store.IsSet(KeyEngine) {
		opts.Engine = ttypes.ParseEngine(cast.ToString(l.store.Get(KeyEngine)))
	}

	// Remote provider
	l.bool(KeyGTTSEnabled, &opts.GTTS.Enabled)
	l.bool(KeyGTTSCache, &opts.GTTS.Cache)
	if sec, ok := l.float(KeyGTTSTimeoutSec); ok && sec > 0 {
		opts.GTTS.Timeout = time.Duration(sec * float64(time.Second))
	}
	l.string(KeyGTTSBinary, &opts.GTTS.Binary)
	l.int(KeyGTTSRequestsPerMinute, &opts.GTTS.RequestsPerMinute)

	// Local provider
	l.bool(KeyPiperEnabled, &opts.Piper.Enabled)
	l.bool(KeyPiperCache, &opts.Piper.Cache)
	l.path(KeyPiperPythonPath, &opts.Piper.PythonPath)
	l.path(KeyPiperScriptPath, &opts.Piper.ScriptPath)

	// Cache location
	l.bool(KeyCachePersistent, &opts.Cache.Persistent)
	l.path(KeyCacheDir, &opts.Cache.Dir)
	l.bool(KeyCacheDedupeInflight, &opts.Cache.DedupeInflight)

	// Dictionary
	l.bool(KeyDictionaryEnabled, &opts.Dictionary.Enabled)
	l.path(KeyDictionaryRoot, &opts.Dictionary.Root)
	if l.store.IsSet(KeyDictionaryExclude) {
		if v, err := cast.ToStringSliceE(l.store.Get(KeyDictionaryExclude)); err == nil {
			opts.Dictionary.Exclude = v
		} else {
			log.Warn("ignoring config value", "key", KeyDictionaryExclude, "err", err)
		}
	}
	l.stringMap(KeyDictionaryExactFolders, &opts.Dictionary.ExactFolders)
	l.stringMap(KeyDictionaryShortFolders, &opts.Dictionary.ShortFolders)

	if opts.GTTS.Binary == "" {
		opts.GTTS.Binary = DefaultGTTSBinary
	}
	return opts
}

type loader struct {
	store Store
}

func (l loader) bool(key string, dst *bool) {
	if !l.store.IsSet(key) {
		return
	}
	v, err := cast.ToBoolE(l.store.Get(key))
	if err != nil {
		log.Warn("ignoring config value", "key", key, "err", err)
		return
	}
	*dst = v
}

func (l loader) int(key string, dst *int) {
	if !l.store.IsSet(key) {
		return
	}
	v, err := cast.ToIntE(l.store.Get(key))
	if err != nil {
		log.Warn("ignoring config value", "key", key, "err", err)
		return
	}
	*dst = v
}

func (l loader) float(key string) (float64, bool) {
	if !l.store.IsSet(key) {
		return 0, false
	}
	v, err := cast.ToFloat64E(l.store.Get(key))
	if err != nil {
		log.Warn("ignoring config value", "key", key, "err", err)
		return 0, false
	}
	return v, true
}

func (l loader) string(key string, dst *string) {
	if !l.store.IsSet(key) {
		return
	}
	v, err := cast.ToStringE(l.store.Get(key))
	if err != nil {
		log.Warn("ignoring config value", "key", key, "err", err)
		return
	}
	*dst = v
}

// path is string plus ~ expansion.
func (l loader) path(key string, dst *string) {
	l.string(key, dst)
	if *dst == "" {
		return
	}
	if expanded, err := homedir.Expand(*dst); err == nil {
		*dst = expanded
	}
}

func (l loader) stringMap(key string, dst *map[string]string) {
	if !l.store.IsSet(key) {
		return
	}
	v, err := cast.ToStringMapStringE(l.store.Get(key))
	if err != nil {
		log.Warn("ignoring config value", "key", key, "err", err)
		return
	}
	*dst = v
}
