// Package cache keeps synthesized audio on disk.
//
// A cache entry is a plain audio file named after a hash of the request and
// voice. There is no index: a file is valid when it exists and is non-empty,
// and a zero-byte file is treated as a corruption marker and removed wherever
// it is seen. Files are only ever committed by renaming a verified temp file
// into place, so readers never observe a half-written entry.
package cache
