package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	logger *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	flags := DefaultConfig()
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "musikspil",
		Short: "Client for the musikspil year-guessing party quiz",
		Long: `musikspil is a terminal client for the music quiz: one player per round
is the DJ and plays a song, everyone else guesses the year it came out.

The client keeps a local copy of the room, refreshed from the server once a
second, and can mirror its screen to browsers with --display.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveConfig(cmd, flags, configFile, os.LookupEnv)
			if err != nil {
				return err
			}
			cfg = resolved
			logger = NewLogger(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
			slog.SetDefault(logger)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.ServerURL, "server", flags.ServerURL, "Game server URL (env: "+EnvServer+")")
	pf.StringVar(&flags.Storage, "storage", flags.Storage, "Local storage: memory, file, redis (env: "+EnvStorage+")")
	pf.StringVar(&flags.StateFile, "state-file", flags.StateFile, "State file for file storage (env: "+EnvStateFile+")")
	pf.StringVar(&flags.RedisURL, "redis-url", flags.RedisURL, "Redis URL for redis storage (env: "+EnvRedisURL+")")
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text, json")
	pf.StringVar(&flags.DisplayAddr, "display", flags.DisplayAddr, "Serve a display mirror on this address, e.g. :8090 (env: "+EnvDisplayAddr+")")
	pf.StringVar(&flags.CoversDir, "covers-dir", flags.CoversDir, "Directory of cover art for the display mirror")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text, json")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", flags.Verbose, "Verbose logging")
	pf.StringVar(&configFile, "config", "", "Config file (env: "+EnvConfig+", default ~/.musikspil/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newStateCmd())
	rootCmd.AddCommand(newDeviceIDCmd())

	return rootCmd
}

// resolveConfig layers defaults, the config file, the environment and
// explicitly set flags, in that order
func resolveConfig(cmd *cobra.Command, flags *Config, configFile string, lookup func(string) (string, bool)) (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	resolved := DefaultConfig()

	path, required := resolved.ConfigFile, false
	if v, ok := lookup(EnvConfig); ok && v != "" {
		path, required = v, true
	}
	if configFile != "" {
		path, required = configFile, true
	}
	if err := resolved.LoadFile(path, required); err != nil {
		return nil, err
	}

	resolved.LoadEnv(lookup)

	changed := cmd.Flags().Changed
	override := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	override("server", &resolved.ServerURL, flags.ServerURL)
	override("storage", &resolved.Storage, flags.Storage)
	override("state-file", &resolved.StateFile, flags.StateFile)
	override("redis-url", &resolved.RedisURL, flags.RedisURL)
	override("output", &resolved.Output, flags.Output)
	override("display", &resolved.DisplayAddr, flags.DisplayAddr)
	override("covers-dir", &resolved.CoversDir, flags.CoversDir)
	override("log-format", &resolved.LogFormat, flags.LogFormat)
	if changed("verbose") {
		resolved.Verbose = flags.Verbose
	}

	if err := resolved.Validate(); err != nil {
		return nil, err
	}
	return resolved, nil
}

// Execute runs the CLI until ctx is cancelled and returns the exit code
func Execute(ctx context.Context) int {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		format := DefaultConfig().Output
		if cfg != nil {
			format = cfg.Output
		}
		NewOutput(format, root.OutOrStdout(), root.ErrOrStderr()).PrintError(err)
		return 1
	}
	return 0
}
