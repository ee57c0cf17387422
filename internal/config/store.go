package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Store is the configuration store the resolver reads from and the engine
// switch writes to.
type Store interface {
	IsSet(key string) bool
	Get(key string) interface{}
	Set(key string, value interface{})
	Save() error
}

// ViperStore implements Store over a viper instance. The instance is only
// touched under the store's lock, and Reload swaps in a freshly read one, so
// readers never see a viper that is being rewritten.
type ViperStore struct {
	mu        sync.RWMutex
	v         *viper.Viper
	envPrefix string
}

// NewViperStore wraps v. A nil v uses the global viper instance.
func NewViperStore(v *viper.Viper) *ViperStore {
	if v == nil {
		v = viper.GetViper()
	}
	return &ViperStore{v: v}
}

// WithEnvPrefix makes reloaded instances read environment overrides with
// prefix, the way the initial instance was set up.
func (s *ViperStore) WithEnvPrefix(prefix string) *ViperStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.envPrefix = prefix
	return s
}

func (s *ViperStore) IsSet(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.IsSet(key)
}

func (s *ViperStore) Get(key string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.Get(key)
}

func (s *ViperStore) Set(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set(key, value)
}

// Save writes the current settings back to the file they were read from.
func (s *ViperStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.ConfigFileUsed() == "" {
		return fmt.Errorf("no config file in use")
	}
	if err := s.v.WriteConfig(); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}
	return nil
}

// ConfigFile returns the path of the file backing the store, if any.
func (s *ViperStore) ConfigFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.ConfigFileUsed()
}

// Reload reads the config file into a new viper instance and swaps it in.
// On a read or parse error the current settings are kept.
func (s *ViperStore) Reload() error {
	s.mu.RLock()
	path, prefix := s.v.ConfigFileUsed(), s.envPrefix
	s.mu.RUnlock()
	if path == "" {
		return fmt.Errorf("no config file in use")
	}

	fresh := viper.New()
	fresh.SetConfigFile(path)
	if prefix != "" {
		fresh.SetEnvPrefix(prefix)
		fresh.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		fresh.AutomaticEnv()
	}
	if err := fresh.ReadInConfig(); err != nil {
		return fmt.Errorf("could not reload %s: %w", path, err)
	}

	s.mu.Lock()
	s.v = fresh
	s.mu.Unlock()
	return nil
}

// Watch reloads the store whenever its config file changes, until ctx is
// done. onChange, if set, runs after each successful reload. The parent
// directory is watched so that editors that replace the file are seen.
func (s *ViperStore) Watch(ctx context.Context, onChange func(fsnotify.Event)) error {
	path := s.ConfigFile()
	if path == "" {
		return fmt.Errorf("no config file in use")
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("could not watch %s: %w", path, err)
	}

	logger := log.WithPrefix("config")
	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(e.Name) != path || e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					logger.Warn("keeping previous config", "err", err)
					continue
				}
				logger.Debug("config reloaded", "file", e.Name, "op", e.Op.String())
				if onChange != nil {
					onChange(e)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", "err", err)
			}
		}
	}()
	return nil
}

// MapStore is an in-memory Store. Keys are used verbatim.
type MapStore map[string]interface{}

func (m MapStore) IsSet(key string) bool {
	_, ok := m[key]
	return ok
}

func (m MapStore) Get(key string) interface{} { return m[key] }

func (m MapStore) Set(key string, value interface{}) { m[key] = value }

func (m MapStore) Save() error { return nil }
