package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/client"
	"github.com/banter-app/banter-cli/pkg/config"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/session"
)

var (
	verbose    bool
	configPath string
	outputFmt  string
)

var rootCmd = &cobra.Command{
	Use:   "banter-cli",
	Short: "Banter CLI - Social networking from the terminal",
	Long: `Banter CLI is a command-line client for the Banter social
network. Browse your feed, chat with friends, follow communities,
and share stories directly from the terminal.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
			os.Exit(1)
		}

		logger.Init(verbose)

		if output.ValidateFormat(outputFmt) {
			config.SetString("output.format", outputFmt)
		}

		// every request carries the persisted identity
		client.Init(client.ProviderFunc(func() session.Identity {
			sess, err := session.Load()
			if err != nil {
				logger.Error("Failed to load session", "error", err)
				return session.Identity{}
			}
			return sess.Identity()
		}))

		// normalized errors surface once, here
		apperr.SetHandler(func(e *apperr.AppError) {
			output.PrintError("%s", e.Message)
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ~/.config/banter/cli/config.toml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "text", "Output format: text, json, table")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(feedCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(reactCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(communitiesCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(storyCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(versionCmd)
}
