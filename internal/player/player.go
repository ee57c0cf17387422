// Package player is the asynchronous entry point the host calls to speak a
// tag. Resolution runs on a background worker; the resolved file is handed
// to a Sink on the main goroutine.
package player

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/taskman"
	"github.com/dgnsrekt/ttsplayer/internal/tts"
	"github.com/dgnsrekt/ttsplayer/internal/tts/engines"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// Sink receives playable files. It is always called on the main goroutine.
type Sink interface {
	InsertFile(path string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(path string)

// InsertFile calls f(path).
func (f SinkFunc) InsertFile(path string) { f(path) }

// Resolver turns a request into a playable file.
type Resolver interface {
	Resolve(ctx context.Context, req ttypes.Request, voice ttypes.Voice) ttypes.Outcome
}

// Player speaks tags with gTTS voices, falling back to Piper.
type Player struct {
	resolver Resolver
	catalog  engines.Catalog
	tasks    *taskman.Manager
	sink     Sink
	log      *log.Logger
}

// New creates a player. All dependencies are required.
func New(resolver Resolver, catalog engines.Catalog, tasks *taskman.Manager, sink Sink) (*Player, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver cannot be nil")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	if tasks == nil {
		return nil, fmt.Errorf("task manager cannot be nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("sink cannot be nil")
	}
	return &Player{
		resolver: resolver,
		catalog:  catalog,
		tasks:    tasks,
		sink:     sink,
		log:      log.WithPrefix("player"),
	}, nil
}

// Voices lists the voices this player offers.
func (p *Player) Voices(ctx context.Context) ([]ttypes.Voice, error) {
	return tts.Voices(ctx, p.catalog)
}

// Play resolves tag in the background. On the main goroutine the resolved
// file, if any, is inserted into the sink and then done is called. done is
// called exactly once, including when resolution fails or the player is
// shutting down. Failures are logged, never returned.
func (p *Player) Play(ctx context.Context, tag ttypes.Tag, voice ttypes.Voice, done func()) {
	var once sync.Once
	finish := func() {
		if done != nil {
			once.Do(done)
		}
	}

	req := tag.Request(voice)
	task := func() (string, error) {
		out := p.resolver.Resolve(ctx, req, voice)
		if !out.OK() {
			return "", nil
		}
		p.log.Debug("resolved", "tier", out.Tier, "cached", out.Cached, "path", out.Path)
		return out.Path, nil
	}

	onDone := func(path string, err error) {
		defer finish()
		if err != nil {
			p.log.Error("speech task failed", "err", err)
			return
		}
		if path != "" {
			p.sink.InsertFile(path)
		}
	}

	if err := p.tasks.Run(task, onDone); err != nil {
		p.log.Warn("could not start speech task", "err", err)
		finish()
	}
}

// Registry holds the players offered to the host.
type Registry struct {
	mu      sync.RWMutex
	players []*Player
}

// Register adds p.
func (r *Registry) Register(p *Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = append(r.players, p)
}

// Players returns the registered players in registration order.
func (r *Registry) Players() []*Player {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Player(nil), r.players...)
}
