package cmd

import (
	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/service"
	"github.com/banter-app/banter-cli/pkg/socket"
)

var (
	notifPage     int
	notifPageSize int
	notifAll      bool
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notifs"},
	Short:   "View notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewNotificationService(api.Default(), nil)
		if notifAll {
			return svc.ListAll(cmd.Context())
		}
		return svc.List(cmd.Context(), notifPage, notifPageSize)
	},
}

var notifReadCmd = &cobra.Command{
	Use:   "read [notification-id]",
	Short: "Mark notifications as read",
	Long:  "Mark one notification as read, or all of them when no id is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewNotificationService(api.Default(), nil)
		if len(args) == 1 {
			return svc.MarkRead(cmd.Context(), args[0])
		}
		return svc.MarkAllRead(cmd.Context())
	},
}

var notifWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream notifications in real time",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := service.RequireSession()
		if err != nil {
			return err
		}
		sock := socket.GetClient()
		sock.SetDeviceID(sess.DeviceID)
		svc := service.NewNotificationService(api.Default(), sock)
		return svc.Watch(cmd.Context(), sess.SocketToken)
	},
}

func init() {
	notificationsCmd.PersistentFlags().IntVar(&notifPage, "page", 1, "Page number")
	notificationsCmd.PersistentFlags().IntVar(&notifPageSize, "page-size", service.DefaultPageSize, "Items per page")
	notificationsCmd.Flags().BoolVar(&notifAll, "all", false, "Fetch every page")

	notificationsCmd.AddCommand(notifReadCmd)
	notificationsCmd.AddCommand(notifWatchCmd)
}
