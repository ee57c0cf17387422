package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttsplayer/internal/cache"
	"github.com/dgnsrekt/ttsplayer/internal/config"
)

var (
	pruneMinAge time.Duration

	cacheCmd = &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clean the audio cache",
		Args:  cobra.NoArgs,
	}

	cacheStatsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show cache size and damaged entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return eachCacheDir(cmd.OutOrStdout(), cache.Scan)
		},
	}

	cachePruneCmd = &cobra.Command{
		Use:   "prune",
		Short: "Remove empty entries and leftover temp files",
		Long:  paragraph(fmt.Sprintf("\n%s zero-byte audio files and temp files left behind by abandoned synthesis. Valid entries are kept.", keyword("Remove"))),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return eachCacheDir(cmd.OutOrStdout(), func(dir string) (cache.Report, error) {
				return cache.Prune(dir, pruneMinAge)
			})
		},
	}
)

func init() {
	cachePruneCmd.Flags().DurationVar(&pruneMinAge, "older-than", time.Minute, "only remove temp files at least this old")
	cacheCmd.AddCommand(cacheStatsCmd, cachePruneCmd)
}

// cacheDirs lists the ephemeral dir and, if resolvable, the persistent one.
func cacheDirs() []string {
	dirs := []string{cache.DefaultEphemeral().Dir}
	opts := config.Load(config.NewViperStore(viper.GetViper()))
	if dir, err := cache.ResolveDir(opts.Cache); err == nil && dir != dirs[0] {
		dirs = append(dirs, dir)
	}
	return dirs
}

func eachCacheDir(w io.Writer, fn func(dir string) (cache.Report, error)) error {
	for _, dir := range cacheDirs() {
		r, err := fn(dir)
		if err != nil {
			return err
		}
		printReport(w, r)
	}
	return nil
}

func printReport(w io.Writer, r cache.Report) {
	fmt.Fprintln(w, keyword(r.Dir))
	fmt.Fprintf(w, "  entries: %d (%s)\n", r.Entries, humanize.Bytes(uint64(r.Bytes))) //nolint:gosec
	fmt.Fprintf(w, "  empty:   %d\n", r.Corrupt)
	fmt.Fprintf(w, "  temp:    %d\n", r.Temp)
	if r.Removed > 0 {
		fmt.Fprintf(w, "  removed: %d\n", r.Removed)
	}
}
