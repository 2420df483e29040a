package mock

import (
	"context"
	"fmt"

	"github.com/clientmock/clientmock/pkg/client"
	"github.com/clientmock/clientmock/pkg/matchers"
)

// NewClientEntry creates an entry bound to a live client. The entry's
// match pattern starts from the template request, but the owning
// client's pre-send middleware must run over the template before
// matching is meaningful — a hook that injects an authentication
// header changes what the expected request looks like. The replay is
// deferred: it runs once, on the first asynchronous lookup (or an
// explicit ExecuteMiddleware call), and the entry is pending until
// then.
func NewClientEntry(c *client.Client, template *client.Request) *Entry {
	e := &Entry{
		method:          template.Method(),
		url:             matchers.Literal(template.URL()),
		headers:         make(map[string]matchers.Matcher),
		explicitHeaders: make(map[string]bool),
		pendingReplay:   true,
	}
	if template.HasBody() {
		e.body = matchers.Literal(template.Body())
	}
	for name, value := range template.Headers() {
		e.headers[name] = matchers.Literal(value)
	}
	e.replay = func(ctx context.Context) (*client.Request, error) {
		return c.Prepare(ctx, template)
	}
	return e
}

// ExecuteMiddleware runs the owning client's pre-send hooks once and
// re-derives the entry's pattern from the transformed request. The
// pending flag is cleared permanently before the hooks run — even a
// failing pipeline is never retried, the error just surfaces to the
// caller. Once cleared, repeated invocation is a no-op. Raw entries
// have nothing to replay and return immediately.
func (e *Entry) ExecuteMiddleware(ctx context.Context) error {
	e.mu.Lock()
	if !e.pendingReplay {
		e.mu.Unlock()
		return nil
	}
	e.pendingReplay = false
	replay := e.replay
	e.mu.Unlock()

	if replay == nil {
		return nil
	}

	transformed, err := replay(ctx)
	if err != nil {
		return fmt.Errorf("mock: middleware replay for entry #%d failed: %w", e.id, err)
	}

	e.absorb(transformed)
	return nil
}

// absorb folds the transformed request into the match pattern.
// Constraints the test supplied explicitly (via MatchURL, MatchBody,
// MatchHeader) win over values derived from the pipeline.
func (e *Entry) absorb(transformed *client.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.method = transformed.Method()
	if !e.explicitURL {
		e.url = matchers.Literal(transformed.URL())
	}
	if !e.explicitBody && transformed.HasBody() {
		e.body = matchers.Literal(transformed.Body())
	}
	for name, value := range transformed.Headers() {
		if e.explicitHeaders[name] {
			continue
		}
		e.headers[name] = matchers.Literal(value)
	}
}
