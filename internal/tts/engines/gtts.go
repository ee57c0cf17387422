package engines

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// GTTSClient drives gtts-cli (Google Translate TTS). It writes MP3 files
// directly to the requested path.
type GTTSClient struct {
	// Configuration
	binary string

	// Rate limiting to avoid being blocked by Google. Nil means unlimited.
	rateLimiter *rate.Limiter
	rpm         int

	log *log.Logger

	// Synchronization
	mu sync.RWMutex
}

// GTTSConfig holds configuration for the gTTS client.
type GTTSConfig struct {
	// Binary is the gtts-cli executable, defaults to "gtts-cli"
	Binary string

	// RequestsPerMinute paces requests; zero disables pacing
	RequestsPerMinute int
}

// NewGTTSClient creates a gTTS client.
func NewGTTSClient(config GTTSConfig) *GTTSClient {
	c := &GTTSClient{log: log.WithPrefix("gtts")}
	c.Configure(config)
	return c
}

// Configure swaps the binary and pacing. Running requests keep the old
// settings. An unchanged configuration keeps the current token bucket.
func (c *GTTSClient) Configure(config GTTSConfig) {
	if config.Binary == "" {
		config.Binary = "gtts-cli"
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.binary == config.Binary && c.rpm == config.RequestsPerMinute {
		return
	}

	c.binary = config.Binary
	c.rpm = config.RequestsPerMinute
	c.rateLimiter = nil
	if config.RequestsPerMinute > 0 {
		c.rateLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)
	}
}

func (c *GTTSClient) settings() (string, *rate.Limiter) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.binary, c.rateLimiter
}

// Synthesize runs gtts-cli and writes MP3 audio to outPath.
func (c *GTTSClient) Synthesize(ctx context.Context, text, lang string, slow bool, outPath string) error {
	binary, limiter := c.settings()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "rate limit wait cancelled", err)
		}
	}

	args := []string{"-l", lang, "-o", outPath}
	if slow {
		args = append(args, "--slow")
	}
	// Text after "--" so leading dashes are not read as flags.
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Debug("synthesizing", "lang", lang, "slow", slow, "chars", len(text))
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return ttypes.NewTTSError(ttypes.ErrorCodeConfiguration, "gtts-cli not found", err).
				WithContext("binary", binary)
		}
		return ttypes.NewTTSError(ttypes.ErrorCodeProvider, "gtts-cli failed", err).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Languages lists the languages gtts-cli supports, keyed by code.
func (c *GTTSClient) Languages(ctx context.Context) (map[string]string, error) {
	binary, _ := c.settings()

	cmd := exec.CommandContext(ctx, binary, "--all")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, ttypes.NewTTSError(ttypes.ErrorCodeConfiguration, "gtts-cli not found", err).
				WithContext("binary", binary)
		}
		return nil, ttypes.NewTTSError(ttypes.ErrorCodeProvider, "could not list languages", err).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	langs := parseLanguages(stdout.String())
	if len(langs) == 0 {
		return nil, ttypes.NewTTSError(ttypes.ErrorCodeProvider, "gtts-cli listed no languages", nil)
	}
	return langs, nil
}

// parseLanguages reads "  code: Name" lines.
func parseLanguages(out string) map[string]string {
	langs := make(map[string]string)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		code, name, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		code = strings.TrimSpace(code)
		if code == "" || strings.ContainsAny(code, " \t") {
			continue
		}
		langs[code] = strings.TrimSpace(name)
	}
	return langs
}

// String implements fmt.Stringer.
func (c *GTTSClient) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rpm <= 0 {
		return c.binary
	}
	return fmt.Sprintf("%s (%d/min)", c.binary, c.rpm)
}
