package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var (
	communityPage     int
	communityPageSize int
)

var communitiesCmd = &cobra.Command{
	Use:   "communities",
	Short: "Browse and join communities",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewCommunityService(api.Default())
		return svc.List(cmd.Context(), communityPage, communityPageSize)
	},
}

var communityJoinCmd = &cobra.Command{
	Use:   "join <community-id>",
	Short: "Join a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewCommunityService(api.Default())
		return svc.Join(cmd.Context(), args[0])
	},
}

var communityLeaveCmd = &cobra.Command{
	Use:   "leave <community-id>",
	Short: "Leave a community",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewCommunityService(api.Default())
		return svc.Leave(cmd.Context(), args[0])
	},
}

var communityPostsCmd = &cobra.Command{
	Use:   "posts <community-id>",
	Short: "View a community's posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewCommunityService(api.Default())
		return svc.ViewPosts(cmd.Context(), args[0], communityPage, communityPageSize)
	},
}

func init() {
	communitiesCmd.PersistentFlags().IntVar(&communityPage, "page", 1, "Page number")
	communitiesCmd.PersistentFlags().IntVar(&communityPageSize, "page-size", service.DefaultPageSize, "Items per page")

	communitiesCmd.AddCommand(communityJoinCmd)
	communitiesCmd.AddCommand(communityLeaveCmd)
	communitiesCmd.AddCommand(communityPostsCmd)
}
