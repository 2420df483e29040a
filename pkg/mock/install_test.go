package mock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientmock/clientmock/pkg/client"
)

func TestInstallSwapsGatewayAndUninstallRestores(t *testing.T) {
	real := client.GatewayFunc(func(_ context.Context, _ *client.Request) (*client.Response, error) {
		return client.NewResponse(502, nil, "the real network"), nil
	})
	cfg := &client.Config{Gateway: real}
	store := NewStore()

	handle := Install(cfg, store)

	store.Register(NewEntry("GET", "/users").Respond(200, nil, "[]"))
	resp, err := cfg.Gateway.Call(context.Background(), client.NewRequest("GET", "/users"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status, "requests resolve against the registry")

	handle.Uninstall()

	resp, err = cfg.Gateway.Call(context.Background(), client.NewRequest("GET", "/users"))
	require.NoError(t, err)
	assert.Equal(t, 502, resp.Status, "the saved gateway is back")
}

func TestUninstallClearsStore(t *testing.T) {
	cfg := &client.Config{}
	store := NewStore()
	handle := Install(cfg, store)

	store.Register(NewEntry("GET", "/users"))
	require.Equal(t, 1, store.Len())

	handle.Uninstall()
	assert.Equal(t, 0, store.Len())
}

func TestUninstallIdempotent(t *testing.T) {
	real := client.GatewayFunc(func(_ context.Context, _ *client.Request) (*client.Response, error) {
		return client.NewResponse(204, nil, ""), nil
	})
	cfg := &client.Config{Gateway: real}
	store := NewStore()

	handle := Install(cfg, store)
	handle.Uninstall()

	// Register something new, then uninstall again: no-op, the store
	// is not cleared a second time and the gateway stays restored.
	store.Register(NewEntry("GET", "/after"))
	handle.Uninstall()

	assert.Equal(t, 1, store.Len())
	resp, err := cfg.Gateway.Call(context.Background(), client.NewRequest("GET", "/x"))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.Status)
}

func TestInstalledGatewayRunsClientPipeline(t *testing.T) {
	cfg := &client.Config{}
	store := NewStore()
	handle := Install(cfg, store)
	defer handle.Uninstall()

	c := client.New(cfg, client.BearerAuth("tok"))
	store.Register(NewClientEntry(c, client.NewRequest("GET", "/me")).
		Respond(200, nil, `{"name":"ada"}`))

	// End to end: Do runs the middleware, the mock gateway replays the
	// entry's pipeline, and both sides agree on the injected header.
	resp, err := c.Do(context.Background(), client.NewRequest("GET", "/me"))
	require.NoError(t, err)
	assert.Equal(t, `{"name":"ada"}`, resp.Body)
}

func TestMockedTrafficFailsLoudly(t *testing.T) {
	cfg := &client.Config{}
	store := NewStore()
	handle := Install(cfg, store)
	defer handle.Uninstall()

	c := client.New(cfg)
	_, err := c.Do(context.Background(), client.NewRequest("GET", "/unregistered"))

	var noMatch *NoMatchError
	assert.ErrorAs(t, err, &noMatch)
}
