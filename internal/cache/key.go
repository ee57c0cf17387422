package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Audio file extensions per provider.
const (
	ExtRemote = ".mp3"
	ExtLocal  = ".wav"
)

// BaseName returns the deterministic file stem for a request spoken by voice.
// Slow and normal requests get different names.
func BaseName(req ttypes.Request, voice ttypes.Voice) string {
	data := fmt.Sprintf("%s|%s|%s", req.Text, voice.ID(), req.Speed)
	hash := sha256.Sum256([]byte(data))
	return "tts-" + hex.EncodeToString(hash[:16])
}

// Ephemeral produces per-request base paths in a scratch directory. It plays
// the part of the host's temp-file naming.
type Ephemeral struct {
	Dir string
}

// DefaultEphemeral uses a ttsplayer directory under the OS temp dir.
func DefaultEphemeral() Ephemeral {
	return Ephemeral{Dir: filepath.Join(os.TempDir(), "ttsplayer")}
}

// Base returns the ephemeral base path (no extension) for req and voice.
// The directory is created on demand.
func (e Ephemeral) Base(req ttypes.Request, voice ttypes.Voice) string {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		log.Debug("could not create ephemeral cache dir", "dir", e.Dir, "err", err)
	}
	return filepath.Join(e.Dir, BaseName(req, voice))
}
