package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var (
	profileName     string
	profileUsername string
	profileBio      string
)

var profileCmd = &cobra.Command{
	Use:   "profile [user-id]",
	Short: "View a profile",
	Long:  "View a user's profile. With no argument, shows your own.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		}
		svc := service.NewProfileService(api.Default())
		return svc.View(cmd.Context(), userID)
	},
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit your profile",
	Long:  "Edit your profile. With flags, only the given fields change; without flags the edit is interactive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewProfileService(api.Default())

		req := api.EditProfileRequest{
			Name:     profileName,
			Username: profileUsername,
			Bio:      profileBio,
		}
		if req == (api.EditProfileRequest{}) {
			return svc.EditInteractive(cmd.Context())
		}
		return svc.Edit(cmd.Context(), req)
	},
}

var profileAvatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Choose a profile picture",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewProfileService(api.Default())
		return svc.ChooseAvatar(cmd.Context())
	},
}

func init() {
	profileEditCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileEditCmd.Flags().StringVar(&profileUsername, "username", "", "Username")
	profileEditCmd.Flags().StringVar(&profileBio, "bio", "", "Bio")

	profileCmd.AddCommand(profileEditCmd)
	profileCmd.AddCommand(profileAvatarCmd)
}
