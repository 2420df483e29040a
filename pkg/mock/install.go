package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clientmock/clientmock/pkg/client"
	"github.com/clientmock/clientmock/pkg/logging"
)

// Gateway is the registry-backed stand-in for the client's transport.
// Every call resolves against the store — it never touches a socket.
// Calls go through the asynchronous path so client-bound entries get
// their middleware replayed before matching.
type Gateway struct {
	store  *Store
	logger *slog.Logger
}

// NewGateway creates a mock gateway over the given store.
func NewGateway(store *Store, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Gateway{store: store, logger: logger}
}

// Call implements client.Gateway.
func (g *Gateway) Call(ctx context.Context, req *client.Request) (*client.Response, error) {
	g.logger.Debug("intercepted request", "method", req.Method(), "url", req.URL())
	return g.store.LookupContext(ctx, req)
}

// Handle is a scoped gateway override. Install swaps the config's
// gateway slot for a mock gateway and saves the previous value; the
// handle's Uninstall restores it on every exit path (pair it with
// defer or testing.TB.Cleanup). Only one override per config should be
// active at a time — installs must be strictly nested.
type Handle struct {
	mu        sync.Mutex
	cfg       *client.Config
	store     *Store
	prev      client.Gateway
	installed bool
}

// Install saves the config's current gateway and overwrites the slot
// with a mock gateway backed by store.
func Install(cfg *client.Config, store *Store) *Handle {
	h := &Handle{
		cfg:       cfg,
		store:     store,
		prev:      cfg.Gateway,
		installed: true,
	}
	cfg.Gateway = NewGateway(store, cfg.Logger)
	return h
}

// Uninstall clears the store, restores the saved gateway, and drops
// the saved reference. Calling it when nothing is installed (or a
// second time) is a no-op.
func (h *Handle) Uninstall() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.installed {
		return
	}
	h.store.Clear()
	h.cfg.Gateway = h.prev
	h.prev = nil
	h.installed = false
}

// Store returns the registry this handle installed.
func (h *Handle) Store() *Store { return h.store }
