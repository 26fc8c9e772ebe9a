package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var (
	feedPage     int
	feedPageSize int
	feedAll      bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Browse the home feed",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewFeedService(api.Default())
		if feedPage > 1 {
			return svc.ViewFeed(cmd.Context(), feedPage, feedPageSize)
		}
		return svc.Browse(cmd.Context(), feedAll)
	},
}

var commentsCmd = &cobra.Command{
	Use:   "comments <post-id>",
	Short: "View comments on a post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewFeedService(api.Default())
		return svc.ViewComments(cmd.Context(), args[0], feedPage, feedPageSize)
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment <post-id> <text>",
	Short: "Comment on a post",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewFeedService(api.Default())
		return svc.AddComment(cmd.Context(), args[0], args[1])
	},
}

func init() {
	feedCmd.PersistentFlags().IntVar(&feedPage, "page", 1, "Page number")
	feedCmd.PersistentFlags().IntVar(&feedPageSize, "page-size", service.DefaultPageSize, "Items per page")
	feedCmd.Flags().BoolVar(&feedAll, "all", false, "Fetch every page")

	feedCmd.AddCommand(commentsCmd)
	feedCmd.AddCommand(commentCmd)
}
