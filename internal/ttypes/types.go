// Package ttypes contains shared types and interfaces for the speech resolver.
// This package is used to break import cycles between tts, engines, cache, dictionary and player packages.
package ttypes

import (
	"strings"
)

// EngineType represents the preferred synthesis engine
type EngineType string

const (
	// EngineGoogle represents the remote gTTS provider
	EngineGoogle EngineType = "gtts"

	// EnginePiper represents the local Piper subprocess provider
	EnginePiper EngineType = "piper"
)

// ParseEngine normalizes an engine name. Anything that is not piper selects gTTS.
func ParseEngine(name string) EngineType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "piper":
		return EnginePiper
	default:
		return EngineGoogle
	}
}

// Speed is the requested speaking speed
type Speed int

const (
	// SpeedNormal is the default speaking speed
	SpeedNormal Speed = iota

	// SpeedSlow asks the provider for slowed-down speech
	SpeedSlow
)

// String returns the string representation of the speed
func (s Speed) String() string {
	if s == SpeedSlow {
		return "slow"
	}
	return "normal"
}

// SpeedFromRate maps a host playback rate to a speed hint.
// Rates below 1 are slow.
func SpeedFromRate(rate float64) Speed {
	if rate > 0 && rate < 1 {
		return SpeedSlow
	}
	return SpeedNormal
}

// Request is a single synthesis request. It is produced per playback event
// and consumed once by the resolver.
type Request struct {
	// Text is the content to speak
	Text string

	// Variant is the language variant code, e.g. en_GB
	Variant string

	// Speed is the speed hint
	Speed Speed
}

// IsEmpty reports whether the request has nothing to speak.
func (r Request) IsEmpty() bool {
	return strings.TrimSpace(r.Text) == ""
}

// Voice describes a selectable synthesis identity.
type Voice struct {
	// Name is the display name
	Name string

	// Lang is the normalized language variant code, e.g. en_GB
	Lang string

	// ProviderCode is the language code understood by the remote provider
	ProviderCode string

	// Description is the provider's name for the language, display only
	Description string
}

// ID returns a stable identity string for cache keys.
func (v Voice) ID() string {
	return v.Name + "|" + v.Lang + "|" + v.ProviderCode
}

// Tag is what the host hands over for playback: the text of a field and the
// requested playback rate.
type Tag struct {
	// FieldText is the text to speak
	FieldText string

	// Lang is the language variant the host asked for
	Lang string

	// Speed is the host playback rate, 1.0 is normal
	Speed float64
}

// Request builds the synthesis request for this tag and matched voice.
func (t Tag) Request(voice Voice) Request {
	return Request{
		Text:    t.FieldText,
		Variant: voice.Lang,
		Speed:   SpeedFromRate(t.Speed),
	}
}

// Tier identifies which source produced the audio.
type Tier string

const (
	// TierNone means no audio was produced
	TierNone Tier = ""

	// TierDictionary is the pre-recorded audio dictionary
	TierDictionary Tier = "dictionary"

	// TierRemote is the remote gTTS provider
	TierRemote Tier = "gtts"

	// TierLocal is the local Piper subprocess
	TierLocal Tier = "piper"
)

// Outcome is the result of resolving a request: either a playable path or
// no audio at all.
type Outcome struct {
	// Path is the playable file, empty when no audio is available
	Path string

	// Tier is the source that produced Path
	Tier Tier

	// Cached is true when Path was served from the cache without synthesis
	Cached bool
}

// OK reports whether the outcome carries a playable file.
func (o Outcome) OK() bool {
	return o.Path != ""
}

// NoAudio is the outcome for requests that produced nothing.
var NoAudio = Outcome{}
