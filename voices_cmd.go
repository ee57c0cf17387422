package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dgnsrekt/ttsplayer/internal/player"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

var voicesCmd = &cobra.Command{
	Use:   "voices [FILTER]",
	Short: "List the available voices",
	Long: paragraph(fmt.Sprintf("\n%s the voices offered by gTTS. An optional filter is matched fuzzily against the language code, provider code and name.",
		keyword("List"))),
	Example: paragraph("ttsplayer voices\nttsplayer voices portug"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(player.SinkFunc(func(string) {}))
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		voices, err := a.player().Voices(ctx)
		if err != nil {
			return fmt.Errorf("unable to list voices: %w", err)
		}
		if len(args) == 1 {
			voices = filterVoices(voices, args[0])
		}

		styled := term.IsTerminal(int(os.Stdout.Fd()))
		return printVoices(cmd.OutOrStdout(), voices, styled)
	},
}

func voiceLine(v ttypes.Voice) string {
	return v.Lang + " " + v.ProviderCode + " " + v.Description
}

// filterVoices keeps fuzzy matches for pattern, best match first.
func filterVoices(voices []ttypes.Voice, pattern string) []ttypes.Voice {
	lines := make([]string, len(voices))
	for i, v := range voices {
		lines[i] = voiceLine(v)
	}

	matches := fuzzy.Find(pattern, lines)
	filtered := make([]ttypes.Voice, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, voices[m.Index])
	}
	return filtered
}

func printVoices(w io.Writer, voices []ttypes.Voice, styled bool) error {
	if len(voices) == 0 {
		if styled {
			fmt.Fprintln(w, warning("No voices found."))
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range voices {
		if styled {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", keyword(v.Lang), v.ProviderCode, faint(v.Description))
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Lang, v.ProviderCode, strings.TrimSpace(v.Description))
	}
	return tw.Flush()
}
