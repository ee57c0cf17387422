package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/ttsplayer/internal/player"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

var (
	lang          string
	speed         float64
	fromClipboard bool

	speakCmd = &cobra.Command{
		Use:   "speak [TEXT]",
		Short: "Resolve text to an audio file and print its path",
		Long: paragraph(fmt.Sprintf("\n%s text to a playable file. Text comes from the arguments, the clipboard with --clipboard, or stdin when it is a pipe.",
			keyword("Resolve"))),
		Example: paragraph("ttsplayer speak hello\nttsplayer speak --lang de_DE --speed 0.7 Guten Tag\necho bonjour | ttsplayer speak -l fr_FR"),
		RunE:    speak,
	}
)

func init() {
	speakCmd.Flags().StringVarP(&lang, "lang", "l", "en_GB", "language variant, e.g. en_GB or pt-br")
	speakCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed; below 1 asks for slow speech")
	speakCmd.Flags().BoolVarP(&fromClipboard, "clipboard", "c", false, "speak the clipboard contents")
}

func speakText(args []string) (string, error) {
	if fromClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("unable to read clipboard: %w", err)
		}
		return text, nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read from stdin: %w", err)
		}
		return string(b), nil
	}
	return "", errors.New("nothing to speak: pass text, --clipboard or pipe to stdin")
}

func speak(cmd *cobra.Command, args []string) error {
	text, err := speakText(args)
	if err != nil {
		return err
	}

	var resolved string
	a, err := newApp(player.SinkFunc(func(path string) {
		resolved = path
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	voice := a.matchVoice(ctx, lang)

	done := make(chan struct{})
	a.player().Play(ctx, ttypes.Tag{FieldText: text, Lang: lang, Speed: speed}, voice, func() { close(done) })
	<-done

	if resolved == "" && strings.TrimSpace(text) != "" {
		return errors.New("no audio available")
	}
	return nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}
