package client

import (
	"context"

	"github.com/google/uuid"
)

// Middleware is a pre-send hook. It may inspect the request and return
// a new one (via Enhance); it must not mutate its input.
type Middleware interface {
	Prepare(ctx context.Context, req *Request) (*Request, error)
}

// MiddlewareFunc adapts a function to the Middleware interface.
type MiddlewareFunc func(ctx context.Context, req *Request) (*Request, error)

// Prepare implements Middleware.
func (f MiddlewareFunc) Prepare(ctx context.Context, req *Request) (*Request, error) {
	return f(ctx, req)
}

// RequestID returns middleware that attaches a fresh UUID v4 in the
// X-Request-Id header. Requests that already carry one keep it.
func RequestID() Middleware {
	return MiddlewareFunc(func(_ context.Context, req *Request) (*Request, error) {
		if _, ok := req.Header("X-Request-Id"); ok {
			return req, nil
		}
		return req.Enhance(Overrides{
			Headers: map[string]string{"X-Request-Id": uuid.NewString()},
		}), nil
	})
}

// BearerAuth returns middleware that attaches an Authorization header
// with the given bearer token.
func BearerAuth(token string) Middleware {
	return MiddlewareFunc(func(_ context.Context, req *Request) (*Request, error) {
		return req.Enhance(Overrides{
			Headers: map[string]string{"Authorization": "Bearer " + token},
		}), nil
	})
}
