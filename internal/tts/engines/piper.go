package engines

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

// PiperEngine runs a Piper synthesis script with a configured interpreter:
//
//	<python> <script> --lang <code> --text <text> --output-file <path>
//
// It blocks until the process exits. There is no timeout.
type PiperEngine struct {
	// run executes the prepared command; replaced in tests.
	run func(cmd *exec.Cmd) error
	log *log.Logger
}

// NewPiperEngine creates a Piper engine.
func NewPiperEngine() *PiperEngine {
	return &PiperEngine{
		run: (*exec.Cmd).Run,
		log: log.WithPrefix("piper"),
	}
}

// Validate checks that both the interpreter and the script are configured
// and exist. It does not start anything.
func (e *PiperEngine) Validate(opts config.PiperOptions) error {
	if opts.PythonPath == "" || opts.ScriptPath == "" {
		return ttypes.NewTTSError(ttypes.ErrorCodeConfiguration, "piper python or script path not set", nil)
	}
	if _, err := os.Stat(opts.PythonPath); err != nil {
		return ttypes.NewTTSError(ttypes.ErrorCodeConfiguration, "piper python not found", err).
			WithContext("path", opts.PythonPath)
	}
	if _, err := os.Stat(opts.ScriptPath); err != nil {
		return ttypes.NewTTSError(ttypes.ErrorCodeConfiguration, "piper script not found", err).
			WithContext("path", opts.ScriptPath)
	}
	return nil
}

// ShortLang returns the part of a variant code before the first underscore.
func ShortLang(variant string) string {
	short, _, _ := strings.Cut(variant, "_")
	return short
}

// Synthesize writes WAV audio for text to outPath. Success requires exit
// status zero and a non-empty output file. The script's stderr is attached
// to the error on failure.
func (e *PiperEngine) Synthesize(ctx context.Context, opts config.PiperOptions, text, variant, outPath string) error {
	if err := e.Validate(opts); err != nil {
		return err
	}

	lang := ShortLang(variant)
	cmd := exec.CommandContext(ctx, opts.PythonPath, opts.ScriptPath,
		"--lang", lang,
		"--text", text,
		"--output-file", outPath,
	)
	hideWindow(cmd)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	e.log.Debug("synthesizing", "lang", lang, "chars", len(text))
	if err := e.run(cmd); err != nil {
		diag := strings.TrimSpace(stderr.String())
		e.log.Error("piper failed", "err", err, "stderr", diag)
		return ttypes.NewTTSError(ttypes.ErrorCodeProcess, "piper failed", err).
			WithContext("stderr", diag)
	}

	if !hasData(outPath) {
		diag := strings.TrimSpace(stderr.String())
		e.log.Error("piper produced no audio", "path", outPath, "stderr", diag)
		return ttypes.NewTTSError(ttypes.ErrorCodeProcess, "piper produced no audio", ttypes.ErrEmptyOutput).
			WithContext("stderr", diag)
	}
	return nil
}
