// Package client is the HTTP gateway to the Banter API. Every outgoing
// request is transparently augmented with identity headers derived from the
// current session; callers never attach these manually. Two parallel resty
// instances exist: one for JSON bodies and one for multipart uploads, both
// behind identical header injection.
package client

import (
	"time"

	"github.com/banter-app/banter-cli/pkg/config"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/session"
	"github.com/go-resty/resty/v2"
)

const userAgent = "Banter-CLI/0.1.0"

// Provider supplies the identity attached to outgoing requests. The session
// package implements it; tests substitute fakes.
type Provider interface {
	Identity() session.Identity
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func() session.Identity

func (f ProviderFunc) Identity() session.Identity { return f() }

// Gateway wraps the JSON and multipart HTTP clients
type Gateway struct {
	json      *resty.Client
	multipart *resty.Client
	provider  Provider
}

// New creates a gateway against baseURL with identity injection from the
// given provider.
func New(baseURL string, timeout time.Duration, provider Provider) *Gateway {
	g := &Gateway{provider: provider}

	g.json = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Content-Type", "application/json")

	// Uploads get a longer leash; resty sets the multipart content type
	// per request when files are attached.
	g.multipart = resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout * 4).
		SetHeader("User-Agent", userAgent)

	for _, c := range []*resty.Client{g.json, g.multipart} {
		c.OnBeforeRequest(g.injectIdentity)
		c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			logger.Debug("HTTP Response", "status", resp.StatusCode(), "url", resp.Request.URL)
			return nil
		})
	}

	return g
}

func (g *Gateway) injectIdentity(_ *resty.Client, req *resty.Request) error {
	logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)

	if g.provider == nil {
		return nil
	}

	id := g.provider.Identity()
	if id.UserID != "" {
		req.Header.Set("X-User-ID", id.UserID)
	}
	if id.Token != "" {
		req.Header.Set("Authorization", "Bearer "+id.Token)
	}
	if id.DeviceID != "" {
		req.Header.Set("X-Device-ID", id.DeviceID)
	}
	return nil
}

// JSON returns the JSON-content client
func (g *Gateway) JSON() *resty.Client {
	return g.json
}

// Multipart returns the multipart-content client for file uploads
func (g *Gateway) Multipart() *resty.Client {
	return g.multipart
}

var defaultGateway *Gateway

// Init builds the default gateway from configuration
func Init(provider Provider) {
	baseURL := config.GetString("api.base_url")
	timeout := time.Duration(config.GetInt("api.timeout")) * time.Second
	defaultGateway = New(baseURL, timeout, provider)
}

// Default returns the default gateway, building one against the persisted
// session if Init has not run.
func Default() *Gateway {
	if defaultGateway == nil {
		Init(ProviderFunc(func() session.Identity {
			sess, err := session.Load()
			if err != nil {
				logger.Error("Failed to load session", "error", err)
				return session.Identity{}
			}
			return sess.Identity()
		}))
	}
	return defaultGateway
}
