package tts

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/cache"
	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/dictionary"
	"github.com/dgnsrekt/ttsplayer/internal/tts/engines"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// BaseNamer returns the per-request ephemeral base path (no extension).
type BaseNamer interface {
	Base(req ttypes.Request, voice ttypes.Voice) string
}

// configurable is implemented by remote clients that follow option changes.
type configurable interface {
	Configure(engines.GTTSConfig)
}

// Resolver turns a request into a playable file by trying, in order, the
// audio dictionary, the preferred provider and the other provider. Options
// are re-read from the store on every call; nothing else is kept between
// calls apart from statistics.
type Resolver struct {
	store     config.Store
	remote    engines.RemoteSynthesizer
	local     engines.LocalSynthesizer
	ephemeral BaseNamer
	inflight  *cache.Inflight
	log       *log.Logger

	stats resolverCounters
}

// ResolverStats counts resolutions by outcome.
type ResolverStats struct {
	Requests   int64
	Dictionary int64
	CacheHits  int64
	Remote     int64
	Local      int64
	Failures   int64
}

type resolverCounters struct {
	requests, dictionary, cacheHits, remote, local, failures atomic.Int64
}

// NewResolver creates a resolver. Dependencies are created by the caller.
func NewResolver(store config.Store, remote engines.RemoteSynthesizer, local engines.LocalSynthesizer, ephemeral BaseNamer) (*Resolver, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if remote == nil {
		return nil, fmt.Errorf("remote synthesizer cannot be nil")
	}
	if local == nil {
		return nil, fmt.Errorf("local synthesizer cannot be nil")
	}
	if ephemeral == nil {
		return nil, fmt.Errorf("ephemeral namer cannot be nil")
	}

	return &Resolver{
		store:     store,
		remote:    remote,
		local:     local,
		ephemeral: ephemeral,
		inflight:  &cache.Inflight{},
		log:       log.WithPrefix("resolver"),
	}, nil
}

// Resolve returns the first playable file for req, or ttypes.NoAudio. It
// never returns an error: tier failures are logged and the next tier is
// tried.
func (r *Resolver) Resolve(ctx context.Context, req ttypes.Request, voice ttypes.Voice) ttypes.Outcome {
	if req.IsEmpty() {
		return ttypes.NoAudio
	}
	r.stats.requests.Add(1)

	opts := config.Load(r.store)
	if c, ok := r.remote.(configurable); ok {
		c.Configure(engines.GTTSConfig{
			Binary:            opts.GTTS.Binary,
			RequestsPerMinute: opts.GTTS.RequestsPerMinute,
		})
	}

	if path, ok := dictionary.New(opts.Dictionary).Find(req.Text, req.Variant, providerCode(req, voice)); ok {
		r.stats.dictionary.Add(1)
		return ttypes.Outcome{Path: path, Tier: ttypes.TierDictionary}
	}

	base := cache.SelectBase(opts.Cache, r.ephemeral.Base(req, voice))
	j := job{
		opts:       opts,
		req:        req,
		voice:      voice,
		remotePath: base + cache.ExtRemote,
		localPath:  base + cache.ExtLocal,
	}

	tiers := []func(context.Context, job) (ttypes.Outcome, error){r.tryRemote, r.tryLocal}
	if opts.Engine == ttypes.EnginePiper {
		tiers = tiers[1:]
	}

	for _, try := range tiers {
		out, err := try(ctx, j)
		if err == nil {
			r.count(out)
			return out
		}
		r.logFailure(err)
	}

	r.stats.failures.Add(1)
	r.log.Warn("no audio available", "variant", req.Variant, "engine", opts.Engine)
	return ttypes.NoAudio
}

// Stats returns a snapshot of the counters.
func (r *Resolver) Stats() ResolverStats {
	return ResolverStats{
		Requests:   r.stats.requests.Load(),
		Dictionary: r.stats.dictionary.Load(),
		CacheHits:  r.stats.cacheHits.Load(),
		Remote:     r.stats.remote.Load(),
		Local:      r.stats.local.Load(),
		Failures:   r.stats.failures.Load(),
	}
}

type job struct {
	opts       config.Options
	req        ttypes.Request
	voice      ttypes.Voice
	remotePath string
	localPath  string
}

func (r *Resolver) tryRemote(ctx context.Context, j job) (ttypes.Outcome, error) {
	o := j.opts.GTTS
	if !o.Enabled {
		return ttypes.NoAudio, ttypes.NewTTSError(ttypes.ErrorCodeDisabled, "gtts disabled", nil)
	}
	if o.Cache && cache.IsUsable(j.remotePath) {
		r.log.Debug("cache hit", "path", j.remotePath)
		return ttypes.Outcome{Path: j.remotePath, Tier: ttypes.TierRemote, Cached: true}, nil
	}

	slow := j.req.Speed == ttypes.SpeedSlow
	err := r.inflight.Do(j.opts.Cache.DedupeInflight, j.remotePath, func() error {
		return cache.WriteAtomically(j.remotePath, func(tempPath string) error {
			return engines.SynthesizeRemote(ctx, r.remote, j.req.Text, providerCode(j.req, j.voice), slow, tempPath, o.Timeout)
		})
	})
	if err != nil {
		return ttypes.NoAudio, err
	}
	return ttypes.Outcome{Path: j.remotePath, Tier: ttypes.TierRemote}, nil
}

func (r *Resolver) tryLocal(ctx context.Context, j job) (ttypes.Outcome, error) {
	o := j.opts.Piper
	if !o.Enabled {
		return ttypes.NoAudio, ttypes.NewTTSError(ttypes.ErrorCodeDisabled, "piper disabled", nil)
	}
	if o.Cache && cache.IsUsable(j.localPath) {
		r.log.Debug("cache hit", "path", j.localPath)
		return ttypes.Outcome{Path: j.localPath, Tier: ttypes.TierLocal, Cached: true}, nil
	}

	err := r.inflight.Do(j.opts.Cache.DedupeInflight, j.localPath, func() error {
		return cache.WriteAtomically(j.localPath, func(tempPath string) error {
			return r.local.Synthesize(ctx, o, j.req.Text, j.req.Variant, tempPath)
		})
	})
	if err != nil {
		return ttypes.NoAudio, err
	}
	return ttypes.Outcome{Path: j.localPath, Tier: ttypes.TierLocal}, nil
}

func (r *Resolver) count(out ttypes.Outcome) {
	switch {
	case out.Cached:
		r.stats.cacheHits.Add(1)
	case out.Tier == ttypes.TierRemote:
		r.stats.remote.Add(1)
	case out.Tier == ttypes.TierLocal:
		r.stats.local.Add(1)
	}
}

func (r *Resolver) logFailure(err error) {
	var te *ttypes.TTSError
	if !errors.As(err, &te) {
		r.log.Warn("tier failed", "err", err)
		return
	}

	switch {
	case te.Code == ttypes.ErrorCodeDisabled:
		r.log.Debug("tier skipped", "err", err)
	case te.IsFatal():
		r.log.Error("tier misconfigured", "err", err)
	case te.IsRetryable():
		r.log.Warn("tier failed, may succeed later", "code", te.Code, "err", err)
	default:
		r.log.Warn("tier failed", "code", te.Code, "err", err, "context", te.Context)
	}
}

// providerCode is the remote language code for a request, falling back to
// the short language of the variant.
func providerCode(req ttypes.Request, voice ttypes.Voice) string {
	if voice.ProviderCode != "" {
		return voice.ProviderCode
	}
	return engines.ShortLang(ttypes.NormalizeVariant(req.Variant))
}
