package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Manage authentication with Banter",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to Banter",
	Long:  "Authenticate with your phone number. A one-time code is sent over SMS; new accounts choose a password after verification.",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewAuthService(api.Default())
		return svc.Login(cmd.Context())
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from Banter",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewAuthService(api.Default())
		return svc.Logout()
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Display the current user's profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewProfileService(api.Default())
		return svc.View(cmd.Context(), "")
	},
}

func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)
}
