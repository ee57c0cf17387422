package taskman

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestManager_RunDeliversOnMain(t *testing.T) {
	m := New()

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		got     []string
	)

	for i := 0; i < 20; i++ {
		i := i
		err := m.Run(func() (string, error) {
			return strings.Repeat("x", i), nil
		}, func(result string, err error) {
			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			mu.Lock()
			got = append(got, result)
			active--
			mu.Unlock()
		})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	}
	m.Close()

	if overlap {
		t.Error("completion handlers ran concurrently")
	}
	if len(got) != 20 {
		t.Errorf("handlers called %d times, want 20", len(got))
	}
	if s := m.Stats(); s.Started != 20 || s.Succeeded != 20 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestManager_Errors(t *testing.T) {
	m := New()
	boom := errors.New("boom")

	results := make(chan error, 2)
	_ = m.Run(func() (string, error) { return "", boom }, func(_ string, err error) { results <- err })
	_ = m.Run(func() (string, error) { panic("kaboom") }, func(_ string, err error) { results <- err })
	m.Close()

	close(results)
	var errs []error
	for err := range results {
		errs = append(errs, err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d results", len(errs))
	}

	var sawBoom, sawPanic bool
	for _, err := range errs {
		if errors.Is(err, boom) {
			sawBoom = true
		}
		if err != nil && strings.Contains(err.Error(), "kaboom") {
			sawPanic = true
		}
	}
	if !sawBoom || !sawPanic {
		t.Errorf("errs = %v", errs)
	}
	if s := m.Stats(); s.Failed != 2 || s.Panicked != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestManager_Closed(t *testing.T) {
	m := New()
	m.Close()
	m.Close()

	if err := m.Run(func() (string, error) { return "", nil }, func(string, error) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Run after Close = %v, want ErrClosed", err)
	}
}

func TestManager_HandlerPanicDoesNotStopMain(t *testing.T) {
	m := New()

	ran := make(chan struct{}, 1)
	noop := func() (string, error) { return "", nil }
	first := make(chan struct{})
	_ = m.Run(noop, func(string, error) {
		close(first)
		panic("handler")
	})
	<-first
	_ = m.Run(noop, func(string, error) { ran <- struct{}{} })
	m.Close()

	select {
	case <-ran:
	default:
		t.Error("main goroutine stopped after a handler panic")
	}
}
