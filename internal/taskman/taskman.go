// Package taskman runs blocking work in the background and delivers the
// results on a single main goroutine, so completion handlers never run
// concurrently with each other.
package taskman

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ErrClosed is returned when work is submitted after Close.
var ErrClosed = errors.New("task manager is closed")

// Manager owns the background workers and the main sequencing goroutine.
type Manager struct {
	main     chan func()
	mainDone chan struct{}
	workers  sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	stats counters
	log   *log.Logger
}

// Stats tracks task outcomes.
type Stats struct {
	Started   int64
	Succeeded int64
	Failed    int64
	Panicked  int64
}

type counters struct {
	started, succeeded, failed, panicked atomic.Int64
}

// New starts a manager and its main goroutine.
func New() *Manager {
	m := &Manager{
		main:     make(chan func(), 64),
		mainDone: make(chan struct{}),
		log:      log.WithPrefix("taskman"),
	}
	go m.loop()
	return m
}

func (m *Manager) loop() {
	defer close(m.mainDone)
	for fn := range m.main {
		m.runMain(fn)
	}
}

func (m *Manager) runMain(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("main task panicked", "panic", r)
		}
	}()
	fn()
}

// Run executes task on its own goroutine and then calls onDone with its
// result on the main goroutine. A panic in task is reported to onDone as an
// error.
func (m *Manager) Run(task func() (string, error), onDone func(string, error)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}

	m.workers.Add(1)
	m.stats.started.Add(1)
	go func() {
		defer m.workers.Done()
		result, err := m.protect(task)
		if err != nil {
			m.stats.failed.Add(1)
		} else {
			m.stats.succeeded.Add(1)
		}
		m.main <- func() { onDone(result, err) }
	}()
	return nil
}

func (m *Manager) protect(task func() (string, error)) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			m.stats.panicked.Add(1)
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task()
}

// Close stops accepting work, waits for running tasks and their completion
// handlers, then stops the main goroutine. It must not be called from a
// completion handler.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		<-m.mainDone
		return
	}
	m.closed = true
	m.mu.Unlock()

	m.workers.Wait()
	close(m.main)
	<-m.mainDone
}

// Stats returns a snapshot of the counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Started:   m.stats.started.Load(),
		Succeeded: m.stats.succeeded.Load(),
		Failed:    m.stats.failed.Load(),
		Panicked:  m.stats.panicked.Load(),
	}
}
