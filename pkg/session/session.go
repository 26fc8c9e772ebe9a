// Package session persists the local identity slice: session token, socket
// token, device id, and user id. It is the file-backed equivalent of the
// browser storage the web client keeps, and it feeds the identity headers
// the API gateway attaches to every request.
package session

import (
	"encoding/json"
	"os"
	"time"

	"github.com/banter-app/banter-cli/pkg/config"
	"github.com/google/uuid"
)

// Identity is the set of values attached to every outgoing request.
type Identity struct {
	UserID      string
	Token       string
	SocketToken string
	DeviceID    string
}

type Session struct {
	Token       string    `json:"token"`
	SocketToken string    `json:"socket_token"`
	DeviceID    string    `json:"device_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Phone       string    `json:"phone"`
	AvatarURL   string    `json:"avatar_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Load loads the session from disk
func Load() (*Session, error) {
	path := config.GetSessionPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No session yet
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}

	return &sess, nil
}

// Save saves the session to disk
func Save(sess *Session) error {
	path := config.GetSessionPath()

	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}

	// Write with restricted permissions (owner read/write only)
	return os.WriteFile(path, data, 0600)
}

// Clear deletes the session from disk
func Clear() error {
	err := os.Remove(config.GetSessionPath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Reset removes the authenticated state but keeps the device id, which
// outlives logout.
func Reset() error {
	sess, err := Load()
	if err != nil {
		return err
	}
	if sess == nil || sess.DeviceID == "" {
		return Clear()
	}
	return Save(&Session{DeviceID: sess.DeviceID})
}

// EnsureDeviceID returns the persisted device id, generating and saving one
// the first time it is asked for. The device id survives logout.
func EnsureDeviceID() (string, error) {
	sess, err := Load()
	if err != nil {
		return "", err
	}
	if sess == nil {
		sess = &Session{}
	}
	if sess.DeviceID != "" {
		return sess.DeviceID, nil
	}

	sess.DeviceID = uuid.NewString()
	if err := Save(sess); err != nil {
		return "", err
	}
	return sess.DeviceID, nil
}

// IsExpired checks if the session token is expired
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsValid checks if the session is usable
func (s *Session) IsValid() bool {
	return s.Token != "" && s.UserID != "" && !s.IsExpired()
}

// Identity returns the identity values derived from this session. It is
// safe to call on an anonymous session: the gateway simply skips empty
// headers.
func (s *Session) Identity() Identity {
	if s == nil {
		return Identity{}
	}
	return Identity{
		UserID:      s.UserID,
		Token:       s.Token,
		SocketToken: s.SocketToken,
		DeviceID:    s.DeviceID,
	}
}
