package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var reactCommunityID string

var reactCmd = &cobra.Command{
	Use:   "react <post-id> <type>",
	Short: "React to a post",
	Long: `React to a post with one of: like, love, haha, lulu.
Reacting with your current type removes it; a different type switches.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}

		rt := api.ReactionType(strings.ToLower(args[1]))
		if !rt.Valid() {
			return fmt.Errorf("unknown reaction type %q (valid: like, love, haha, lulu)", args[1])
		}

		if reactCommunityID != "" {
			svc := service.NewCommunityService(api.Default())
			return svc.React(cmd.Context(), reactCommunityID, args[0], rt)
		}

		svc := service.NewFeedService(api.Default())
		return svc.ReactByID(cmd.Context(), args[0], rt)
	},
}

func init() {
	reactCmd.Flags().StringVar(&reactCommunityID, "community", "", "React inside a community (uses the combined community endpoint)")
}
