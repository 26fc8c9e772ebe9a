package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var storyCaption string

var storyCmd = &cobra.Command{
	Use:   "story",
	Short: "Share and view stories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewStoryService(api.Default())
		return svc.List(cmd.Context())
	},
}

var storyUploadCmd = &cobra.Command{
	Use:   "upload <media-file>",
	Short: "Upload a story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewStoryService(api.Default())
		return svc.Upload(cmd.Context(), args[0], storyCaption)
	},
}

func init() {
	storyUploadCmd.Flags().StringVar(&storyCaption, "caption", "", "Story caption")

	storyCmd.AddCommand(storyUploadCmd)
}
