// Package engines contains the two synthesis backends and the adapters the
// resolver drives them through.
//
// The remote backend is gtts-cli, bounded by a wall-clock timeout after which
// the call is abandoned rather than cancelled. The local backend is a Piper
// script run by a configured interpreter; it has no timeout.
package engines
