package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"

	"github.com/dgnsrekt/ttsplayer/internal/config"
)

// AppName scopes the per-user directories.
const AppName = "ttsplayer"

// DefaultPersistentDir is the persistent cache used when no directory is
// configured.
func DefaultPersistentDir() (string, error) {
	dir, err := gap.NewScope(gap.User, AppName).CacheDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, "audio"), nil
}

// SelectBase picks the base path (no extension) for a request. With the
// persistent cache on, the file keeps its ephemeral name but moves under the
// persistent directory. If that directory cannot be created the ephemeral
// base is used.
func SelectBase(opts config.CacheOptions, ephemeralBase string) string {
	if !opts.Persistent {
		return ephemeralBase
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultPersistentDir()
		if err != nil {
			log.Warn("falling back to ephemeral cache", "err", err)
			return ephemeralBase
		}
		dir = d
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn("falling back to ephemeral cache", "dir", dir, "err", err)
		return ephemeralBase
	}

	return filepath.Join(dir, filepath.Base(ephemeralBase))
}

// ResolveDir returns the directory the persistent cache lives in, for
// maintenance commands.
func ResolveDir(opts config.CacheOptions) (string, error) {
	if opts.Dir != "" {
		return opts.Dir, nil
	}
	return DefaultPersistentDir()
}
