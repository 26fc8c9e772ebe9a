package service

import (
	"context"
	"fmt"
	"time"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/prompter"
	"github.com/banter-app/banter-cli/pkg/session"
)

// OTPDigits is the length of the one-time code sent over SMS
const OTPDigits = 6

// AuthService drives the phone-number login flow
type AuthService struct {
	api *api.Client
}

// NewAuthService creates a new auth service
func NewAuthService(c *api.Client) *AuthService {
	return &AuthService{api: c}
}

// SendCode requests an OTP for the given phone number
func (s *AuthService) SendCode(ctx context.Context, phone string) error {
	if phone == "" {
		return fmt.Errorf("phone cannot be empty")
	}
	return s.api.SendOTP(ctx, phone)
}

// VerifyCode checks the OTP and reports whether this phone belongs to a
// new user who still needs to set a password.
func (s *AuthService) VerifyCode(ctx context.Context, phone, code string) (*api.VerifyOTPResponse, error) {
	if err := prompter.ValidateOTP(code, OTPDigits); err != nil {
		return nil, err
	}
	return s.api.VerifyOTP(ctx, phone, code)
}

// CompleteLogin exchanges phone and password for a session and persists it.
// The device id survives logout, so the same one is reused here.
func (s *AuthService) CompleteLogin(ctx context.Context, phone, password string) (*api.LoginResponse, error) {
	if password == "" {
		return nil, fmt.Errorf("password cannot be empty")
	}

	deviceID, err := session.EnsureDeviceID()
	if err != nil {
		return nil, err
	}

	loginResp, err := s.api.Login(ctx, phone, password, deviceID)
	if err != nil {
		return nil, err
	}

	sess := &session.Session{
		Token:       loginResp.Token,
		SocketToken: loginResp.SocketToken,
		DeviceID:    deviceID,
		UserID:      loginResp.User.ID,
		Username:    loginResp.User.Username,
		Phone:       loginResp.User.Phone,
		AvatarURL:   loginResp.User.AvatarURL,
		ExpiresAt:   time.Now().Add(time.Duration(loginResp.ExpiresIn) * time.Second),
	}
	if err := session.Save(sess); err != nil {
		return nil, err
	}

	logger.Info("Logged in", "username", loginResp.User.Username)
	return loginResp, nil
}

// SetPassword sets the password for a newly verified account
func (s *AuthService) SetPassword(ctx context.Context, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return s.api.SetPassword(ctx, password)
}

// Login runs the interactive login flow: send code, verify, then either
// set a password (new user) or enter the existing one.
func (s *AuthService) Login(ctx context.Context) error {
	sess, err := session.Load()
	if err != nil {
		logger.Error("Failed to load session", "error", err)
		return err
	}

	if sess != nil && sess.IsValid() {
		formatter.PrintWarning("Already logged in as %s", sess.Username)
		confirm, err := prompter.PromptConfirm("Continue with new login?")
		if err != nil {
			return err
		}
		if !confirm {
			return nil
		}
	}

	phone, err := prompter.PromptString("Phone: ")
	if err != nil {
		return err
	}

	if err := s.SendCode(ctx, phone); err != nil {
		formatter.PrintError("Failed to send code: %v", err)
		return err
	}
	formatter.PrintInfo("Code sent to %s", phone)

	code, err := prompter.PromptOTP("Code: ", OTPDigits)
	if err != nil {
		return err
	}

	verified, err := s.VerifyCode(ctx, phone, code)
	if err != nil {
		formatter.PrintError("Verification failed: %v", err)
		return err
	}
	if !verified.Verified {
		formatter.PrintError("Invalid code")
		return fmt.Errorf("invalid code")
	}

	if verified.IsNewUser {
		formatter.PrintInfo("Welcome! Choose a password for your account.")
		password, err := prompter.PromptPassword("New password: ")
		if err != nil {
			return err
		}
		confirmPw, err := prompter.PromptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirmPw {
			return fmt.Errorf("passwords do not match")
		}
		if err := s.SetPassword(ctx, password); err != nil {
			formatter.PrintError("Failed to set password: %v", err)
			return err
		}
		if _, err := s.CompleteLogin(ctx, phone, password); err != nil {
			formatter.PrintError("Login failed: %v", err)
			return err
		}
	} else {
		password, err := prompter.PromptPassword("Password: ")
		if err != nil {
			return err
		}
		if _, err := s.CompleteLogin(ctx, phone, password); err != nil {
			formatter.PrintError("Login failed: %v", err)
			return err
		}
	}

	sess, _ = session.Load()
	formatter.PrintSuccess("✓ Login successful!")
	if sess != nil {
		formatter.PrintInfo("Logged in as %s", formatter.Bold.Sprint(sess.Username))
	}
	return nil
}

// Logout clears the saved session. The device id is kept.
func (s *AuthService) Logout() error {
	sess, err := session.Load()
	if err != nil {
		logger.Error("Failed to load session", "error", err)
		return err
	}

	if sess == nil {
		formatter.PrintWarning("Not logged in")
		return nil
	}

	confirm, err := prompter.PromptConfirm("Logout?")
	if err != nil {
		return err
	}
	if !confirm {
		return nil
	}

	if err := session.Reset(); err != nil {
		formatter.PrintError("Failed to clear session: %v", err)
		return err
	}

	formatter.PrintSuccess("✓ Logged out successfully")
	return nil
}

// RequireSession loads the session or fails with a login hint
func RequireSession() (*session.Session, error) {
	sess, err := session.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil || !sess.IsValid() {
		formatter.PrintError("Not logged in. Please run 'banter-cli auth login'")
		return nil, fmt.Errorf("not authenticated")
	}
	return sess, nil
}
