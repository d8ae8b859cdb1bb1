// Package redis stores collections as Redis lists of JSON documents and
// settings as plain string keys, matching the layout of the club's
// original deployment.
package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// Options selects the Redis server.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key; empty for the legacy layout.
	Prefix string
}

// Client wraps redis.Client with the key prefix.
type Client struct {
	*redis.Client
	prefix string
}

// NewClient creates a Client. It does not dial.
func NewClient(opts Options) *Client {
	return &Client{
		Client: redis.NewClient(&redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		prefix: opts.Prefix,
	}
}

// Check pings the server.
func (c *Client) Check(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (c *Client) key(name string) string {
	return c.prefix + name
}
