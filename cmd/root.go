package cmd

import (
	"log/slog"

	"github.com/paradoks/clubhub/config"
	"github.com/paradoks/clubhub/utils"
	"github.com/spf13/cobra"
)

var (
	configFile string
	env        *config.Env
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clubhub",
	Short: "Clubs and posts backend",
	Long: `clubhub serves the clubs, users, posts and announcements API.

Without a subcommand it starts the HTTP server, same as "clubhub serve".
Configuration is read from .env, an optional config.yaml and the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		env, err = config.Load(configFile)
		if err != nil {
			return err
		}
		logger = utils.SetupLogger(env.LogLevel, env.LogFormat)
		return nil
	},
	RunE: runServe,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./config.yaml)")
}
