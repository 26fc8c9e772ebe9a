package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/pager"
	"github.com/banter-app/banter-cli/pkg/socket"
)

// NotificationService provides notification operations
type NotificationService struct {
	api  *api.Client
	sock *socket.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService(c *api.Client, sock *socket.Client) *NotificationService {
	return &NotificationService{api: c, sock: sock}
}

// Pager returns a pager over the viewer's notifications
func (s *NotificationService) Pager() *pager.Pager[api.Notification] {
	return pager.New(func(ctx context.Context, page, pageSize int) ([]api.Notification, api.PageMeta, error) {
		resp, err := s.api.GetNotifications(ctx, page, pageSize)
		if err != nil {
			return nil, api.PageMeta{}, err
		}
		return resp.Notifications, resp.Meta, nil
	}, DefaultPageSize, func(n api.Notification) string { return n.ID })
}

// List displays a page of notifications
func (s *NotificationService) List(ctx context.Context, page, pageSize int) error {
	resp, err := s.api.GetNotifications(ctx, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch notifications: %w", err)
	}

	if len(resp.Notifications) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	rows := make([][]string, 0, len(resp.Notifications))
	for _, n := range resp.Notifications {
		rows = append(rows, formatter.NotificationRow(n))
	}
	if err := output.PrintList("Notifications", rows, formatter.NotificationColumns()); err != nil {
		return err
	}

	if resp.UnreadCount > 0 {
		fmt.Printf("\n%d unread\n", resp.UnreadCount)
	}
	return nil
}

// ListAll pages through every notification via the pager and renders the
// lot in one table.
func (s *NotificationService) ListAll(ctx context.Context) error {
	p := s.Pager()
	if err := p.LoadInitial(ctx); err != nil {
		return fmt.Errorf("failed to fetch notifications: %w", err)
	}
	for p.HasMore() {
		if err := p.LoadMore(ctx); err != nil {
			return fmt.Errorf("failed to fetch notifications: %w", err)
		}
	}

	items := p.Items()
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return nil
	}

	rows := make([][]string, 0, len(items))
	for _, n := range items {
		rows = append(rows, formatter.NotificationRow(n))
	}
	return output.PrintList("Notifications", rows, formatter.NotificationColumns())
}

// MarkRead marks a single notification as read
func (s *NotificationService) MarkRead(ctx context.Context, notificationID string) error {
	if err := s.api.MarkNotificationRead(ctx, notificationID); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Marked as read")
	return nil
}

// MarkAllRead marks every notification as read
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ All notifications marked as read")
	return nil
}

// Watch streams notifications in real time until interrupted
func (s *NotificationService) Watch(ctx context.Context, socketToken string) error {
	logger.Debug("Starting notification watcher")

	if err := s.sock.Connect(socketToken); err != nil {
		return fmt.Errorf("failed to connect to notification stream: %w", err)
	}
	defer s.sock.Disconnect()

	fmt.Printf("\n")
	formatter.PrintInfo("Watching for notifications")
	fmt.Printf("Press Ctrl+C to stop\n")
	fmt.Printf("%s\n\n", strings.Repeat("─", 60))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	unsubscribe := s.sock.On(socket.EventNotification, func(payload interface{}) {
		var n api.Notification
		data, err := json.Marshal(payload)
		if err == nil {
			err = json.Unmarshal(data, &n)
		}
		if err != nil {
			logger.Warn("Dropping malformed notification event", "error", err)
			return
		}
		formatter.Info.Printf("[%s] ", formatter.RelativeTime(n.CreatedAt))
		formatter.Bold.Printf("%s ", n.Actor.Username)
		fmt.Println(n.Message)
	})
	defer unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-sigChan:
		fmt.Println("\nStopped watching.")
		return nil
	}
}
