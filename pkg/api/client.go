// Package api wraps the Banter REST endpoints with typed requests and
// responses. Functions here are thin: identity headers come from the
// gateway, error shapes from apperr, state machines live elsewhere.
package api

import (
	"github.com/banter-app/banter-cli/pkg/client"
)

// Client calls the Banter API through a gateway
type Client struct {
	gw *client.Gateway
}

// New creates an API client over the given gateway
func New(gw *client.Gateway) *Client {
	return &Client{gw: gw}
}

// Default returns an API client over the default gateway
func Default() *Client {
	return New(client.Default())
}
