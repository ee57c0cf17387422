package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttsplayer/internal/cache"
	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/player"
	"github.com/dgnsrekt/ttsplayer/internal/taskman"
	"github.com/dgnsrekt/ttsplayer/internal/tts"
	"github.com/dgnsrekt/ttsplayer/internal/tts/engines"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// app wires the resolver stack for one CLI invocation.
type app struct {
	store     *config.ViperStore
	gtts      *engines.GTTSClient
	ephemeral cache.Ephemeral
	resolver  *tts.Resolver
	tasks     *taskman.Manager
	players   player.Registry
}

func newApp(sink player.Sink) (*app, error) {
	store := config.NewViperStore(viper.GetViper()).WithEnvPrefix(appName)
	opts := config.Load(store)

	gtts := engines.NewGTTSClient(engines.GTTSConfig{
		Binary:            opts.GTTS.Binary,
		RequestsPerMinute: opts.GTTS.RequestsPerMinute,
	})
	ephemeral := cache.DefaultEphemeral()

	resolver, err := tts.NewResolver(store, gtts, engines.NewPiperEngine(), ephemeral)
	if err != nil {
		return nil, fmt.Errorf("unable to create resolver: %w", err)
	}

	tasks := taskman.New()
	p, err := player.New(resolver, gtts, tasks, sink)
	if err != nil {
		tasks.Close()
		return nil, fmt.Errorf("unable to create player: %w", err)
	}

	a := &app{
		store:     store,
		gtts:      gtts,
		ephemeral: ephemeral,
		resolver:  resolver,
		tasks:     tasks,
	}
	a.players.Register(p)
	return a, nil
}

// player returns the gTTS player.
func (a *app) player() *player.Player {
	return a.players.Players()[0]
}

// matchVoice finds the voice for variant. Without a catalog it falls back to
// a voice derived from the variant.
func (a *app) matchVoice(ctx context.Context, variant string) ttypes.Voice {
	voices, err := a.player().Voices(ctx)
	if err != nil {
		log.Warn("could not list voices", "err", err)
	}
	return tts.MatchVoice(voices, variant)
}

func (a *app) Close() {
	a.tasks.Close()
}
