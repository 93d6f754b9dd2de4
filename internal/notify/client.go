package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Config describes the NATS connection.
type Config struct {
	URL           string
	Subject       string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
	Timeout       time.Duration
}

// DefaultConfig returns a local connection with unlimited reconnects.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		Subject:       "media-board",
		Name:          "media-board",
		MaxReconnects: -1,
		ReconnectWait: nats.DefaultReconnectWait,
		Timeout:       nats.DefaultTimeout,
	}
}

// Publisher sends a message on a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Client wraps the NATS connection.
type Client struct {
	conn *nats.Conn
}

// Connect dials cfg.URL.
func Connect(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("NATS URL is required")
	}
	opts := []nats.Option{
		nats.Name(cfg.Name),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("Connected to NATS at %s", conn.ConnectedUrl())
	return &Client{conn: conn}, nil
}

// Publish publishes data on subject.
func (c *Client) Publish(subject string, data []byte) error {
	return c.conn.Publish(subject, data)
}

// IsConnected reports whether the connection is up.
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close flushes pending messages and closes the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Drain()
	if err != nil {
		c.conn.Close()
	}
	log.Info("NATS connection closed")
	return err
}
