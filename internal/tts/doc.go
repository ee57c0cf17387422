// Package tts resolves speech requests to playable audio files.
//
// A Resolver tries the audio dictionary first, then the preferred synthesis
// provider, then the other one, caching synthesized files on disk. Voices
// are derived from the remote provider's language catalog.
package tts
