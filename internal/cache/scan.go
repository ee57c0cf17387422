package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Report summarizes a cache directory.
type Report struct {
	Dir     string
	Entries int
	Bytes   int64
	Corrupt int
	Temp    int
	Removed int
}

func isAudio(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ExtRemote || ext == ExtLocal
}

// Scan walks dir without modifying anything. A missing dir is an empty report.
func Scan(dir string) (Report, error) {
	return walk(dir, false, 0)
}

// Prune applies the cache gate to every entry in dir and removes temp files
// older than minAge. Younger temp files may belong to a running synthesis.
func Prune(dir string, minAge time.Duration) (Report, error) {
	return walk(dir, true, minAge)
}

func walk(dir string, prune bool, minAge time.Duration) (Report, error) {
	r := Report{Dir: dir}
	now := time.Now()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		switch {
		case strings.HasSuffix(path, TempSuffix):
			r.Temp++
			if prune && now.Sub(info.ModTime()) >= minAge {
				if err := os.Remove(path); err == nil {
					r.Removed++
					log.Debug("removed leftover temp file", "path", path)
				}
			}
		case isAudio(path):
			if err := Check(path); errors.Is(err, ttypes.ErrCorruption) {
				r.Corrupt++
				if prune && repair(path, err) {
					r.Removed++
				}
				return nil
			}
			r.Entries++
			r.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return r, fmt.Errorf("scan %s: %w", dir, err)
	}
	return r, nil
}
