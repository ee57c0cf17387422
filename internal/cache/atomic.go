package cache

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// TempSuffix is appended to the final path while a producer is writing.
const TempSuffix = ".temp"

// TempPath returns the staging path for finalPath.
func TempPath(finalPath string) string {
	return finalPath + TempSuffix
}

// WriteAtomically runs produce against a temp path and renames the result to
// finalPath only if produce succeeded and left a non-empty file. On any
// failure the temp file is removed and finalPath is left untouched.
//
// Concurrent writers to the same finalPath are not coordinated; the last
// rename wins.
func WriteAtomically(finalPath string, produce func(tempPath string) error) error {
	tempPath := TempPath(finalPath)

	if err := produce(tempPath); err != nil {
		removeQuietly(tempPath)
		return err
	}

	if !nonEmpty(tempPath) {
		removeQuietly(tempPath)
		return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "producer left no audio", ttypes.ErrEmptyOutput).
			WithContext("path", tempPath)
	}

	// Rename does not replace an existing file on every platform.
	if err := os.Remove(finalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug("could not remove previous cache file", "path", finalPath, "err", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		removeQuietly(tempPath)
		return fmt.Errorf("commit %s: %w", finalPath, err)
	}

	log.Debug("committed cache file", "path", finalPath)
	return nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug("could not remove temp file", "path", path, "err", err)
	}
}
