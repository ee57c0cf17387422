package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/ttsplayer/internal/config"
	"github.com/dgnsrekt/ttsplayer/internal/ttypes"
)

var engineCmd = &cobra.Command{
	Use:       "engine [gtts|piper]",
	Short:     "Show, set or toggle the preferred engine",
	Long:      paragraph(fmt.Sprintf("\n%s the preferred engine. Without an argument the engine is toggled between gtts and piper. The choice is written to the config file.", keyword("Switch"))),
	Example:   paragraph("ttsplayer engine\nttsplayer engine piper\nttsplayer engine --show"),
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(ttypes.EngineGoogle), string(ttypes.EnginePiper)},
	RunE: func(cmd *cobra.Command, args []string) error {
		store := config.NewViperStore(viper.GetViper())
		current := config.Load(store).Engine

		show, _ := cmd.Flags().GetBool("show")
		if show {
			fmt.Fprintln(cmd.OutOrStdout(), current)
			return nil
		}

		next := toggleEngine(current)
		if len(args) == 1 {
			switch args[0] {
			case string(ttypes.EngineGoogle), string(ttypes.EnginePiper):
				next = ttypes.EngineType(args[0])
			default:
				return fmt.Errorf("unknown engine %q: use gtts or piper", args[0])
			}
		}

		if err := switchEngine(store, next); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Engine switched to %s\n", keyword(string(next)))
		return nil
	},
}

func init() {
	engineCmd.Flags().Bool("show", false, "print the current engine without changing it")
}

func toggleEngine(current ttypes.EngineType) ttypes.EngineType {
	if current == ttypes.EnginePiper {
		return ttypes.EngineGoogle
	}
	return ttypes.EnginePiper
}

func switchEngine(store config.Store, engine ttypes.EngineType) error {
	store.Set(config.KeyEngine, string(engine))
	if err := store.Save(); err != nil {
		return fmt.Errorf("unable to save engine: %w", err)
	}
	return nil
}
