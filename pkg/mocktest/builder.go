package mocktest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/clientmock/clientmock/pkg/matchers"
	"github.com/clientmock/clientmock/pkg/mock"
)

// Builder configures an expectation using a fluent API. Errors during
// building are collected (first error wins) and reported when Reply
// registers the expectation.
type Builder struct {
	mocker    *Mocker
	entry     *mock.Entry
	status    int
	headers   map[string]string
	body      string
	delay     time.Duration
	responder mock.Responder
	err       error
}

// setError records the first error encountered during building.
// Subsequent errors are ignored (first error wins pattern).
func (b *Builder) setError(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Err returns any error encountered during building.
func (b *Builder) Err() error {
	return b.err
}

// WithStatus sets the response status code. Default is 200.
func (b *Builder) WithStatus(status int) *Builder {
	b.status = status
	return b
}

// WithBody sets the response body. Strings and byte slices are used
// as-is; anything else is JSON encoded.
func (b *Builder) WithBody(body any) *Builder {
	switch v := body.(type) {
	case string:
		b.body = v
	case []byte:
		b.body = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			b.setError(fmt.Errorf("WithBody: failed to marshal body: %w", err))
			return b
		}
		b.body = string(data)
		b.withDefaultHeader("Content-Type", "application/json")
	}
	return b
}

// WithJSON sets the response body as JSON and the Content-Type header.
func (b *Builder) WithJSON(body any) *Builder {
	data, err := json.Marshal(body)
	if err != nil {
		b.setError(fmt.Errorf("WithJSON: failed to marshal body: %w", err))
		return b
	}
	b.body = string(data)
	if b.headers == nil {
		b.headers = make(map[string]string)
	}
	b.headers["Content-Type"] = "application/json"
	return b
}

// WithHeader adds a response header.
func (b *Builder) WithHeader(key, value string) *Builder {
	if b.headers == nil {
		b.headers = make(map[string]string)
	}
	b.headers[key] = value
	return b
}

// WithDelay delays the response. Accepts duration strings like
// "100ms" or "1s".
func (b *Builder) WithDelay(delay string) *Builder {
	d, err := time.ParseDuration(delay)
	if err != nil {
		b.setError(fmt.Errorf("WithDelay: invalid duration %q: %w", delay, err))
		return b
	}
	b.delay = d
	return b
}

// RespondWith replaces the response producer entirely, for dynamic
// responses; WithStatus/WithBody/WithHeader are ignored when set.
func (b *Builder) RespondWith(r mock.Responder) *Builder {
	b.responder = r
	return b
}

// WithRequestHeader requires the request to carry a header with this
// exact value.
func (b *Builder) WithRequestHeader(key, value string) *Builder {
	b.entry.MatchHeaderValue(key, value)
	return b
}

// WithRequestHeaderMatching requires the request to carry a header
// satisfying the matcher.
func (b *Builder) WithRequestHeaderMatching(key string, m matchers.Matcher) *Builder {
	b.entry.MatchHeader(key, m)
	return b
}

// WithBodyEquals requires an exactly matching request body.
func (b *Builder) WithBodyEquals(body string) *Builder {
	b.entry.MatchBodyEquals(body)
	return b
}

// WithBodyContains requires the request body to contain the substring.
func (b *Builder) WithBodyContains(substr string) *Builder {
	b.entry.MatchBody(matchers.StringContaining(substr))
	return b
}

// WithBodyMatching requires the request body to satisfy the matcher.
func (b *Builder) WithBodyMatching(m matchers.Matcher) *Builder {
	b.entry.MatchBody(m)
	return b
}

// WithURLPattern matches the URL against a regular expression instead
// of the exact string given to Mock.
func (b *Builder) WithURLPattern(pattern string) *Builder {
	m, err := matchers.StringMatching(pattern)
	if err != nil {
		b.setError(err)
		return b
	}
	b.entry.MatchURL(m)
	return b
}

// WithURLMatching matches the URL with the given matcher.
func (b *Builder) WithURLMatching(m matchers.Matcher) *Builder {
	b.entry.MatchURL(m)
	return b
}

// Reply finalizes and registers the expectation, returning the entry
// for call assertions. A building error fails the test immediately.
func (b *Builder) Reply() *mock.Entry {
	b.mocker.t.Helper()

	if b.err != nil {
		b.mocker.t.Fatalf("mocktest: invalid expectation: %v", b.err)
	}

	if b.responder == nil {
		status := b.status
		if status == 0 {
			status = 200
		}
		b.responder = &mock.StaticResponder{
			Status:  status,
			Headers: b.headers,
			Body:    b.body,
			Delay:   b.delay,
		}
	}
	b.entry.RespondWith(b.responder)

	return b.mocker.store.Register(b.entry)
}

func (b *Builder) withDefaultHeader(key, value string) {
	if b.headers == nil {
		b.headers = make(map[string]string)
	}
	if _, ok := b.headers[key]; !ok {
		b.headers[key] = value
	}
}
