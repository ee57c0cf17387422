package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

func writeFile(t *testing.T, path string, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestIsUsable(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "full.mp3")
	writeFile(t, full, "AUDIO")
	empty := filepath.Join(dir, "empty.mp3")
	writeFile(t, empty, "")

	tests := []struct {
		name       string
		path       string
		want       bool
		wantExists bool
	}{
		{"non-empty file", full, true, true},
		{"zero-byte file is removed", empty, false, false},
		{"missing file", filepath.Join(dir, "missing.mp3"), false, false},
		{"directory", dir, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUsable(tt.path); got != tt.want {
				t.Errorf("IsUsable() = %v, want %v", got, tt.want)
			}
			if got := exists(tt.path); got != tt.wantExists {
				t.Errorf("exists after IsUsable = %v, want %v", got, tt.wantExists)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.mp3")
	writeFile(t, full, "AUDIO")
	empty := filepath.Join(dir, "empty.mp3")
	writeFile(t, empty, "")

	if err := Check(full); err != nil {
		t.Errorf("Check(full) = %v", err)
	}

	err := Check(empty)
	if !errors.Is(err, ttypes.ErrCorruption) || ttypes.CodeOf(err) != ttypes.ErrorCodeCorruption {
		t.Errorf("Check(empty) = %v, want a corruption error", err)
	}
	if !exists(empty) {
		t.Error("Check must not remove anything")
	}

	if err := Check(filepath.Join(dir, "missing.mp3")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Check(missing) = %v, want not-exist", err)
	}
	if err := Check(dir); err == nil || errors.Is(err, ttypes.ErrCorruption) {
		t.Errorf("Check(dir) = %v, want a non-corruption error", err)
	}
}

func TestWriteAtomically_Success(t *testing.T) {
	final := filepath.Join(t.TempDir(), "out.mp3")
	writeFile(t, final, "OLD")

	err := WriteAtomically(final, func(tempPath string) error {
		if tempPath != final+".temp" {
			t.Errorf("tempPath = %q", tempPath)
		}
		if data, _ := os.ReadFile(final); string(data) != "OLD" {
			t.Error("final path should be untouched while producing")
		}
		return os.WriteFile(tempPath, []byte("AUDIO123"), 0o644)
	})
	if err != nil {
		t.Fatalf("WriteAtomically: %v", err)
	}

	data, err := os.ReadFile(final)
	if err != nil || string(data) != "AUDIO123" {
		t.Errorf("final = %q, %v", data, err)
	}
	if exists(TempPath(final)) {
		t.Error("temp file should be gone")
	}
}

func TestWriteAtomically_NeverExposesPartialFile(t *testing.T) {
	final := filepath.Join(t.TempDir(), "out.mp3")
	payloads := map[string]bool{}

	var (
		stop    atomic.Bool
		empty   atomic.Int64
		partial atomic.Int64
		seen    atomic.Int64
		wg      sync.WaitGroup
		mu      sync.Mutex
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			if info, err := os.Stat(final); err == nil && info.Size() == 0 {
				empty.Add(1)
			}
			if !IsUsable(final) {
				continue
			}
			data, err := os.ReadFile(final)
			if err != nil {
				continue
			}
			seen.Add(1)
			mu.Lock()
			ok := payloads[string(data)]
			mu.Unlock()
			if !ok {
				partial.Add(1)
			}
		}
	}()

	for i := 0; i < 20; i++ {
		payload := strings.Repeat(string(rune('a'+i)), 4096)
		mu.Lock()
		payloads[payload] = true
		mu.Unlock()

		err := WriteAtomically(final, func(tempPath string) error {
			f, err := os.Create(tempPath)
			if err != nil {
				return err
			}
			defer f.Close()
			for off := 0; off < len(payload); off += 512 {
				if _, err := f.WriteString(payload[off : off+512]); err != nil {
					return err
				}
				time.Sleep(time.Millisecond)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("WriteAtomically %d: %v", i, err)
		}
	}
	stop.Store(true)
	wg.Wait()

	if n := empty.Load(); n > 0 {
		t.Errorf("final path was observed zero-byte %d times", n)
	}
	if n := partial.Load(); n > 0 {
		t.Errorf("final path was observed with partial content %d times", n)
	}
	if seen.Load() == 0 {
		t.Error("poller never observed a committed file")
	}
}

func TestWriteAtomically_Failures(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		produce func(string) error
		wantErr error
	}{
		{
			name: "producer error with leftover",
			produce: func(p string) error {
				_ = os.WriteFile(p, []byte("partial"), 0o644)
				return boom
			},
			wantErr: boom,
		},
		{
			name: "success but empty file",
			produce: func(p string) error {
				return os.WriteFile(p, nil, 0o644)
			},
			wantErr: ttypes.ErrEmptyOutput,
		},
		{
			name:    "success but no file",
			produce: func(string) error { return nil },
			wantErr: ttypes.ErrEmptyOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final := filepath.Join(t.TempDir(), "out.wav")

			err := WriteAtomically(final, tt.produce)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if exists(final) {
				t.Error("final path must not exist after a failed write")
			}
			if exists(TempPath(final)) {
				t.Error("temp file must be cleaned up")
			}
		})
	}
}

func TestBaseName(t *testing.T) {
	voice := ttypes.Voice{Name: "gTTS", Lang: "en_GB", ProviderCode: "en"}
	req := ttypes.Request{Text: "hello", Variant: "en_GB"}

	a := BaseName(req, voice)
	if a != BaseName(req, voice) {
		t.Error("BaseName should be deterministic")
	}
	if !strings.HasPrefix(a, "tts-") || len(a) != len("tts-")+32 {
		t.Errorf("unexpected base name %q", a)
	}

	slow := req
	slow.Speed = ttypes.SpeedSlow
	if BaseName(slow, voice) == a {
		t.Error("slow and normal should not share a cache entry")
	}

	other := voice
	other.ProviderCode = "en-au"
	if BaseName(req, other) == a {
		t.Error("different voices should not share a cache entry")
	}
}

func TestSelectBase(t *testing.T) {
	ephemeral := filepath.Join(t.TempDir(), "tts-abc")
	custom := filepath.Join(t.TempDir(), "nested", "cache")

	if got := SelectBase(config.CacheOptions{}, ephemeral); got != ephemeral {
		t.Errorf("non-persistent base = %q, want %q", got, ephemeral)
	}

	got := SelectBase(config.CacheOptions{Persistent: true, Dir: custom}, ephemeral)
	if got != filepath.Join(custom, "tts-abc") {
		t.Errorf("persistent base = %q", got)
	}
	if info, err := os.Stat(custom); err != nil || !info.IsDir() {
		t.Error("custom dir should be created")
	}

	// A regular file in the way makes MkdirAll fail.
	blocker := filepath.Join(t.TempDir(), "file")
	writeFile(t, blocker, "x")
	got = SelectBase(config.CacheOptions{Persistent: true, Dir: filepath.Join(blocker, "sub")}, ephemeral)
	if got != ephemeral {
		t.Errorf("uncreatable dir should fall back to ephemeral, got %q", got)
	}
}

func TestInflight(t *testing.T) {
	t.Run("disabled runs every call", func(t *testing.T) {
		var f Inflight
		var calls int32
		for i := 0; i < 3; i++ {
			_ = f.Do(false, "k", func() error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("enabled shares concurrent calls", func(t *testing.T) {
		var f Inflight
		var calls int32
		release := make(chan struct{})
		started := make(chan struct{})

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.Do(true, "k", func() error {
				atomic.AddInt32(&calls, 1)
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = f.Do(true, "k", func() error {
					atomic.AddInt32(&calls, 1)
					return nil
				})
			}()
		}

		// Give the joiners time to attach to the running call.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}

func TestScanAndPrune(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.mp3"), "12345")
	writeFile(t, filepath.Join(dir, "b.wav"), "123")
	writeFile(t, filepath.Join(dir, "c.mp3"), "")
	writeFile(t, filepath.Join(dir, "d.mp3.temp"), "partial")
	writeFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	r, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if r.Entries != 2 || r.Bytes != 8 || r.Corrupt != 1 || r.Temp != 1 {
		t.Errorf("Scan report = %+v", r)
	}
	if !exists(filepath.Join(dir, "c.mp3")) {
		t.Error("Scan must not modify the cache")
	}

	r, err = Prune(dir, 0)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if r.Removed != 2 {
		t.Errorf("Removed = %d, want 2", r.Removed)
	}
	if exists(filepath.Join(dir, "c.mp3")) || exists(filepath.Join(dir, "d.mp3.temp")) {
		t.Error("corrupt entry and temp file should be removed")
	}
	if !exists(filepath.Join(dir, "a.mp3")) {
		t.Error("valid entries must survive a prune")
	}
}

func TestScan_MissingDir(t *testing.T) {
	r, err := Scan(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if r.Entries != 0 {
		t.Errorf("Entries = %d", r.Entries)
	}
}
