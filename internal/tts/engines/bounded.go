package engines

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// SynthesizeRemote calls client on its own goroutine and waits at most
// timeout for it. On timeout it returns immediately with a TIMEOUT error; the
// goroutine is abandoned, not cancelled, and may still leave a file at
// tempPath. Success requires a non-empty file at tempPath. It never retries.
func SynthesizeRemote(ctx context.Context, client RemoteSynthesizer, text, lang string, slow bool, tempPath string, timeout time.Duration) error {
	// Buffered so an abandoned worker can always deliver and exit.
	done := make(chan error, 1)

	workCtx := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("remote synthesis panicked", "panic", r)
				done <- ttypes.NewTTSError(ttypes.ErrorCodeProvider, "remote synthesis panicked", nil).
					WithContext("panic", r)
			}
		}()
		done <- client.Synthesize(workCtx, text, lang, slow, tempPath)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			if ttypes.CodeOf(err) != "" {
				return err
			}
			return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "remote synthesis failed", err)
		}
	case <-timer.C:
		return ttypes.NewTTSError(ttypes.ErrorCodeTimeout, "remote synthesis timed out", nil).
			WithContext("timeout", timeout.String())
	case <-ctx.Done():
		return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "remote synthesis abandoned", ctx.Err())
	}

	if !hasData(tempPath) {
		return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "remote provider wrote no audio", ttypes.ErrEmptyOutput).
			WithContext("path", tempPath)
	}
	return nil
}

func hasData(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() > 0
}
