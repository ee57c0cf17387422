package engines

import (
	"context"

	"github.com/dgnsrekt/ttsplayer/internal/config"
)

// RemoteSynthesizer writes speech for text to outPath using a network
// provider.
type RemoteSynthesizer interface {
	Synthesize(ctx context.Context, text, lang string, slow bool, outPath string) error
}

// Catalog lists the languages a provider supports, keyed by provider code.
type Catalog interface {
	Languages(ctx context.Context) (map[string]string, error)
}

// LocalSynthesizer writes speech for text to outPath using a local process.
type LocalSynthesizer interface {
	Synthesize(ctx context.Context, opts config.PiperOptions, text, variant, outPath string) error
}
