package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/config"
	"github.com/banter-app/banter-cli/pkg/service"
	"github.com/banter-app/banter-cli/pkg/session"
	"github.com/banter-app/banter-cli/pkg/socket"
	"github.com/banter-app/banter-cli/pkg/speech"
)

var (
	chatPage     int
	chatPageSize int
	chatAll      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Direct messages",
}

var chatRoomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewChatService(api.Default(), nil)
		if chatAll {
			return svc.ListAllRooms(cmd.Context())
		}
		return svc.ListRooms(cmd.Context(), chatPage, chatPageSize)
	},
}

var chatViewCmd = &cobra.Command{
	Use:   "view <room-id>",
	Short: "View messages in a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := service.RequireSession()
		if err != nil {
			return err
		}
		svc := service.NewChatService(api.Default(), nil)
		return svc.ViewMessages(cmd.Context(), args[0], sess.UserID, chatPage, chatPageSize)
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <room-id> <text>",
	Short: "Send a message",
	Long:  "Send a message to a conversation. Delivery goes over the realtime socket when connected, falling back to the REST endpoint.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := service.RequireSession()
		if err != nil {
			return err
		}

		sock := connectedSocket(sess)
		svc := service.NewChatService(api.Default(), sock)
		return svc.Send(cmd.Context(), args[0], sess.UserID, args[1], false)
	},
}

var chatOpenCmd = &cobra.Command{
	Use:   "open <room-id>",
	Short: "Open a conversation interactively",
	Long:  "Join a conversation over the realtime socket: incoming messages print live, typed lines are sent, and voice messages play through a local audio player when one is installed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := service.RequireSession()
		if err != nil {
			return err
		}

		sock := connectedSocket(sess)
		if sock == nil {
			return fmt.Errorf("realtime connection unavailable; check 'banter-cli chat rooms' still works and try again")
		}

		svc := service.NewChatService(api.Default(), sock)
		if config.GetBool("chat.speech_enabled") {
			machine := speech.NewMachine(nil)
			machine.SetPlayer(speech.FindPlayer())
			svc.AttachSpeech(machine)
		}
		return svc.OpenRoom(cmd.Context(), args[0], sess.UserID, os.Stdin)
	},
}

var chatStartCmd = &cobra.Command{
	Use:   "start <user-id> <text>",
	Short: "Start a conversation with a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := service.RequireSession(); err != nil {
			return err
		}
		svc := service.NewChatService(api.Default(), nil)
		_, err := svc.StartConversation(cmd.Context(), args[0], args[1])
		return err
	},
}

// connectedSocket dials the realtime socket with the session's socket
// token. A failed dial returns nil and the caller uses REST only.
func connectedSocket(sess *session.Session) service.Realtime {
	if sess.SocketToken == "" {
		return nil
	}
	sock := socket.GetClient()
	sock.SetDeviceID(sess.DeviceID)
	if !sock.IsConnected() {
		if err := sock.Connect(sess.SocketToken); err != nil {
			return nil
		}
	}
	return sock
}

func init() {
	chatCmd.PersistentFlags().IntVar(&chatPage, "page", 1, "Page number")
	chatCmd.PersistentFlags().IntVar(&chatPageSize, "page-size", service.DefaultPageSize, "Items per page")
	chatRoomsCmd.Flags().BoolVar(&chatAll, "all", false, "Fetch every page")

	chatCmd.AddCommand(chatRoomsCmd)
	chatCmd.AddCommand(chatViewCmd)
	chatCmd.AddCommand(chatOpenCmd)
	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatStartCmd)
}
