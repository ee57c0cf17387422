package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/ttsplayer/internal/player"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Resolve every line read from stdin",
	Long: paragraph(fmt.Sprintf("\n%s lines from stdin and print one resolved path per line, in completion order. Lines are resolved concurrently. Config file edits apply to the next line.",
		keyword("Read"))),
	Example: paragraph("cat words.txt | ttsplayer listen --lang es_ES"),
	Args:    cobra.NoArgs,
	RunE:    listen,
}

func init() {
	listenCmd.Flags().StringVarP(&lang, "lang", "l", "en_GB", "language variant, e.g. en_GB or pt-br")
	listenCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed; below 1 asks for slow speech")
}

func listen(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	a, err := newApp(player.SinkFunc(func(path string) {
		fmt.Fprintln(out, path)
	}))
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.store.ConfigFile() != "" {
		err := a.store.Watch(ctx, func(e fsnotify.Event) {
			log.Info("config changed", "file", e.Name, "op", e.Op.String())
		})
		if err != nil {
			log.Warn("config changes will not be picked up", "err", err)
		}
	}
	voice := a.matchVoice(ctx, lang)

	var pending sync.WaitGroup
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		pending.Add(1)
		a.player().Play(ctx, ttypes.Tag{FieldText: line, Lang: lang, Speed: speed}, voice, pending.Done)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("unable to read from stdin: %w", err)
	}

	pending.Wait()
	stats := a.resolver.Stats()
	tasks := a.tasks.Stats()
	log.Info("done", "requests", stats.Requests, "cached", stats.CacheHits, "dictionary", stats.Dictionary, "failed", stats.Failures,
		"tasks", tasks.Started, "panicked", tasks.Panicked)
	return nil
}
