package cache

import (
	"golang.org/x/sync/singleflight"
)

// Inflight collapses concurrent synthesis of the same cache path into one
// call. Callers that joined a shared call get its error.
type Inflight struct {
	group singleflight.Group
}

// Do runs fn for key. When enabled is false fn runs directly, so duplicate
// work for the same key can race.
func (f *Inflight) Do(enabled bool, key string, fn func() error) error {
	if !enabled || f == nil {
		return fn()
	}
	_, err, _ := f.group.Do(key, func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
