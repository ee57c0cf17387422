package cache

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Check returns nil if path holds a playable cache entry. A zero-byte file
// yields a CORRUPTION error; a missing path yields the stat error.
func Check(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	if info.Size() == 0 {
		return ttypes.NewTTSError(ttypes.ErrorCodeCorruption, "zero-byte cache entry", nil).
			WithContext("path", path)
	}
	return nil
}

// IsUsable reports whether path holds a playable cache entry. A zero-byte file
// is removed before returning false. It never fails: a missing path or a
// failed removal both just mean "regenerate".
func IsUsable(path string) bool {
	err := Check(path)
	if err == nil {
		return true
	}
	if errors.Is(err, ttypes.ErrCorruption) {
		repair(path, err)
	}
	return false
}

// repair removes a corrupt entry and reports whether it is gone.
func repair(path string, cause error) bool {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug("could not remove corrupt cache file", "path", path, "cause", cause, "err", err)
		return false
	}
	log.Debug("removed corrupt cache file", "path", path, "cause", cause)
	return true
}
