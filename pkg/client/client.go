// Package client is a small HTTP client abstraction: immutable
// requests, a pre-send middleware pipeline, and a pluggable Gateway
// that performs the actual I/O. The mock engine swaps the gateway out
// wholesale during tests, so code built on this package never needs to
// know whether traffic is real.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/clientmock/clientmock/pkg/logging"
)

// ErrNoGateway is returned by Do when the config has no gateway
// installed.
var ErrNoGateway = errors.New("client: no gateway installed")

// Gateway is the pluggable transport. Real implementations perform
// network I/O; the mock engine installs a registry-backed stand-in.
type Gateway interface {
	Call(ctx context.Context, req *Request) (*Response, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, req *Request) (*Response, error)

// Call implements Gateway.
func (f GatewayFunc) Call(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Config is the configuration a client (and the mock engine) operates
// against. It is owned by the caller and passed explicitly — there is
// no hidden process-wide singleton — so isolated test runs each get
// their own gateway slot.
type Config struct {
	// Gateway is the transport slot. The mock engine saves and
	// overwrites it on install and restores it on uninstall.
	Gateway Gateway

	// Logger receives client diagnostics. Nil means silent.
	Logger *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.Nop()
}

// Client issues requests through a middleware pipeline and a gateway.
type Client struct {
	cfg        *Config
	middleware []Middleware
}

// New creates a client bound to cfg with the given pre-send middleware,
// run in the order given.
func New(cfg *Config, middleware ...Middleware) *Client {
	return &Client{cfg: cfg, middleware: middleware}
}

// Config returns the configuration the client operates against.
func (c *Client) Config() *Config { return c.cfg }

// Prepare runs only the middleware pipeline, returning the transformed
// request. The mock engine uses this to replay a client's hooks over a
// registered expectation.
func (c *Client) Prepare(ctx context.Context, req *Request) (*Request, error) {
	current := req
	for _, mw := range c.middleware {
		next, err := mw.Prepare(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("client: middleware failed: %w", err)
		}
		current = next
	}
	return current, nil
}

// Do runs the middleware pipeline and hands the transformed request to
// the gateway.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	prepared, err := c.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	gw := c.cfg.Gateway
	if gw == nil {
		return nil, ErrNoGateway
	}

	c.cfg.logger().Debug("dispatching request",
		"method", prepared.Method(),
		"url", prepared.URL())

	return gw.Call(ctx, prepared)
}
