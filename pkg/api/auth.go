package api

import (
	"context"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// SendOTP requests a one-time code for the given phone number
func (c *Client) SendOTP(ctx context.Context, phone string) error {
	logger.Debug("Sending OTP", "phone", phone)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(SendOTPRequest{Phone: phone}).
		Post("/send-otp")

	return apperr.CheckResponse(resp, err)
}

// VerifyOTP verifies a one-time code and returns a short-lived token
func (c *Client) VerifyOTP(ctx context.Context, phone, code string) (*VerifyOTPResponse, error) {
	logger.Debug("Verifying OTP", "phone", phone)

	var result VerifyOTPResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(VerifyOTPRequest{Phone: phone, Code: code}).
		SetResult(&result).
		Post("/verify-otp")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates with phone and password
func (c *Client) Login(ctx context.Context, phone, password, deviceID string) (*LoginResponse, error) {
	logger.Debug("Logging in", "phone", phone)

	var result LoginResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(LoginRequest{Phone: phone, Password: password, DeviceID: deviceID}).
		SetResult(&result).
		Post("/login")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}

	logger.Debug("Login successful", "username", result.User.Username)
	return &result, nil
}

// SetPassword sets the account password after OTP verification
func (c *Client) SetPassword(ctx context.Context, password string) error {
	logger.Debug("Setting password")

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(SetPasswordRequest{Password: password}).
		Put("/set-password")

	return apperr.CheckResponse(resp, err)
}
