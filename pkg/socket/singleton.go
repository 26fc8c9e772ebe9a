package socket

import (
	"sync"

	"github.com/banter-app/banter-cli/pkg/config"
)

var (
	instance *Client
	once     sync.Once
)

// FromConfig builds a Config from the persisted CLI configuration
func FromConfig() Config {
	cfg := DefaultConfig()
	if host := config.GetString("socket.host"); host != "" {
		cfg.Host = host
	}
	if port := config.GetInt("socket.port"); port != 0 {
		cfg.Port = port
	}
	if path := config.GetString("socket.path"); path != "" {
		cfg.Path = path
	}
	cfg.UseTLS = config.GetBool("socket.tls")
	return cfg
}

// GetClient returns the shared realtime client instance
func GetClient(cfg ...Config) *Client {
	once.Do(func() {
		var c Config
		if len(cfg) > 0 {
			c = cfg[0]
		} else {
			c = FromConfig()
		}
		instance = NewClient(c)
	})
	return instance
}
