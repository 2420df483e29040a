package mocktest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clientmock/clientmock/pkg/client"
	"github.com/clientmock/clientmock/pkg/matchers"
	"github.com/clientmock/clientmock/pkg/mock"
	"github.com/clientmock/clientmock/pkg/mocktest"
)

func TestMockerEndToEnd(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/users/7").
		WithStatus(200).
		WithJSON(map[string]any{"id": 7, "name": "ada"}).
		Reply()

	c := client.New(cfg)
	resp, err := c.Do(context.Background(), client.NewRequest("get", "/users/7"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.JSONEq(t, `{"id":7,"name":"ada"}`, resp.Body)
	assert.Equal(t, "application/json", resp.Header("Content-Type"))

	mt.AssertCalled("GET", "/users/7")
	mt.AssertCalledTimes("get", "/users/7", 1)
	mt.AssertNotCalled("POST", "/users/7")
	assert.Equal(t, 0, mt.UnusedCount())
}

func TestMockerRestoresGatewayOnCleanup(t *testing.T) {
	real := client.GatewayFunc(func(ctx context.Context, req *client.Request) (*client.Response, error) {
		return client.NewResponse(200, nil, "from the network"), nil
	})
	cfg := &client.Config{Gateway: real}

	t.Run("inner", func(t *testing.T) {
		mt := mocktest.New(t, cfg)
		mt.Mock("GET", "/ping").WithBody("pong").Reply()

		resp, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/ping"))
		require.NoError(t, err)
		assert.Equal(t, "pong", resp.Body)
	})

	resp, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/ping"))
	require.NoError(t, err)
	assert.Equal(t, "from the network", resp.Body, "cleanup restores the saved gateway")
}

func TestBuilderRequestConstraints(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("POST", "/users").
		WithRequestHeader("Content-Type", "application/json").
		WithBodyContains(`"name"`).
		WithStatus(201).
		WithBody(`{"ok":true}`).
		Reply()

	c := client.New(cfg)

	resp, err := c.Do(context.Background(), client.NewRequest("POST", "/users").
		WithHeader("Content-Type", "application/json").
		WithBody(`{"name":"ada"}`))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)

	_, err = c.Do(context.Background(), client.NewRequest("POST", "/users").
		WithBody(`{"name":"ada"}`))
	require.Error(t, err)
	var partial *mock.PartialMatchError
	assert.ErrorAs(t, err, &partial, "missing header degrades to a partial match")
}

func TestBuilderURLPattern(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/users/7").
		WithURLPattern(`^/users/\d+$`).
		WithJSON(map[string]int{"id": 1}).
		Reply()

	c := client.New(cfg)
	for _, url := range []string{"/users/1", "/users/42"} {
		resp, err := c.Do(context.Background(), client.NewRequest("GET", url))
		require.NoError(t, err, url)
		assert.Equal(t, 200, resp.Status)
	}

	_, err := c.Do(context.Background(), client.NewRequest("GET", "/users/abc"))
	assert.Error(t, err)
}

func TestBuilderBodyMatching(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	m, err := matchers.JSONPath("name", "ada")
	require.NoError(t, err)
	mt.Mock("POST", "/users").
		WithBodyMatching(m).
		WithStatus(201).
		Reply()

	resp, err := client.New(cfg).Do(context.Background(),
		client.NewRequest("POST", "/users").WithBody(`{"name":"ada","age":36}`))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.Status)
}

func TestBuilderErrSurfacesBeforeReply(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	b := mt.Mock("GET", "/a").WithURLPattern("[")
	require.Error(t, b.Err())
	var cerr *matchers.ConstructionError
	assert.ErrorAs(t, b.Err(), &cerr)

	b = mt.Mock("GET", "/a").WithDelay("soon")
	require.Error(t, b.Err())
	assert.Contains(t, b.Err().Error(), "invalid duration")
}

func TestBuilderDelay(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/slow").WithDelay("20ms").WithBody("done").Reply()

	start := time.Now()
	resp, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/slow"))
	require.NoError(t, err)
	assert.Equal(t, "done", resp.Body)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestBuilderRespondWith(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("POST", "/echo").
		RespondWith(mock.ResponderFunc(func(req *client.Request) (*client.Response, error) {
			return client.NewResponse(200, nil, req.Body()), nil
		})).
		Reply()

	resp, err := client.New(cfg).Do(context.Background(),
		client.NewRequest("POST", "/echo").WithBody("hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Body)
}

func TestMockClientReplaysMiddleware(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	c := client.New(cfg, client.BearerAuth("s3cr3t"))

	entry := mt.MockClient(c, client.NewRequest("GET", "/private")).
		WithStatus(200).
		WithBody("granted").
		Reply()

	resp, err := c.Do(context.Background(), client.NewRequest("GET", "/private"))
	require.NoError(t, err)
	assert.Equal(t, "granted", resp.Body)
	assert.Equal(t, 1, entry.CallCount())

	calls := entry.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer s3cr3t", calls[0].Headers["Authorization"],
		"the recorded request carries the middleware-added header")
}

func TestMockClientMiddlewareFailure(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	boom := errors.New("token expired")
	c := client.New(cfg, client.MiddlewareFunc(func(ctx context.Context, req *client.Request) (*client.Request, error) {
		return nil, boom
	}))

	// Register through a second, hook-free client so Do itself does not
	// fail in its own middleware run.
	mt.MockClient(c, client.NewRequest("GET", "/private")).Reply()

	plain := client.New(cfg)
	_, err := plain.Do(context.Background(), client.NewRequest("GET", "/private"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestMockerClear(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/a").Reply()
	mt.Mock("GET", "/b").Reply()
	require.Equal(t, 2, mt.Store().Len())

	mt.Clear()
	assert.Equal(t, 0, mt.Store().Len())

	_, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/a"))
	var noMatch *mock.NoMatchError
	assert.ErrorAs(t, err, &noMatch)
}

func TestUnusedCount(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/used").WithBody("x").Reply()
	mt.Mock("GET", "/never").Reply()

	_, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/used"))
	require.NoError(t, err)

	assert.Equal(t, 1, mt.UnusedCount())
}

func TestLastRegistrationWins(t *testing.T) {
	cfg := &client.Config{}
	mt := mocktest.New(t, cfg)

	mt.Mock("GET", "/flag").WithBody("old").Reply()
	mt.Mock("GET", "/flag").WithBody("new").Reply()

	resp, err := client.New(cfg).Do(context.Background(), client.NewRequest("GET", "/flag"))
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Body)
}
