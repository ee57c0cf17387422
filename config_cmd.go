package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/ttsplayer/internal/config"
)

const defaultConfig = `# preferred engine: gtts tries gTTS then Piper, piper uses Piper only
engine: "gtts"

# remote synthesis with gtts-cli
gtts:
  enabled: true
  # reuse synthesized mp3 files
  cache: true
  # give up waiting after this many seconds
  timeout_sec: 5
  binary: "gtts-cli"
  # 0 disables pacing
  requests_per_minute: 0

# local synthesis with a Piper script
piper:
  enabled: true
  # reuse synthesized wav files
  cache: true
  python_path: ""
  script_path: ""

cache:
  # keep audio across runs instead of in the temp dir
  persistent: false
  # defaults to the user cache dir
  dir: ""
  # share one synthesis between identical concurrent requests
  dedupe_inflight: false

# pre-recorded audio: <root>/<language folder>/<any>/<word>.mp3
dictionary:
  enabled: false
  root: ""
  # skip files whose path contains any of these
  exclude: []
  folders:
    # keyed by full code, e.g. pt_BR: "Portuguese (Brazil)"
    exact: {}
    # keyed by short code, e.g. de: "German"
    short: {}
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the ttsplayer config file",
	Long:    paragraph(fmt.Sprintf("\n%s the ttsplayer config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("ttsplayer config\nttsplayer config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("ttsplayer", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective options",
	Long:  paragraph(fmt.Sprintf("\n%s the options the resolver would use right now, after defaults and environment overrides.", keyword("Print"))),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := config.Load(config.NewViperStore(viper.GetViper()))

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return fmt.Errorf("unable to encode options: %w", err)
		}
		return enc.Close()
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configFile)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd)
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
