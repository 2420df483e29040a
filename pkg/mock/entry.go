package mock

import (
	"context"
	"sync"

	"github.com/clientmock/clientmock/pkg/client"
	"github.com/clientmock/clientmock/pkg/matchers"
)

// CallRecord is a snapshot of a request that matched an entry.
type CallRecord struct {
	Method  string
	URL     string
	Body    string
	HasBody bool
	Headers map[string]string
}

// Entry is a registered expectation: a request pattern paired with a
// response producer. Entries are created by the registration calls and
// destroyed only by Store.Clear; matching never mutates the pattern,
// it only appends to the call history.
type Entry struct {
	id int64

	method  string
	url     matchers.Matcher
	body    matchers.Matcher // nil means unconstrained
	headers map[string]matchers.Matcher

	responder Responder

	// Fields the test constrained explicitly. Middleware replay must
	// not overwrite these with values derived from the transformed
	// request.
	explicitURL     bool
	explicitBody    bool
	explicitHeaders map[string]bool

	mu            sync.Mutex
	calls         []CallRecord
	pendingReplay bool
	replay        func(ctx context.Context) (*client.Request, error)
}

// NewEntry creates a raw low-level entry matching the given method and
// exact URL. Constrain further with MatchURL, MatchBody and
// MatchHeader, then attach a responder with RespondWith.
func NewEntry(method, url string) *Entry {
	return &Entry{
		method:          method,
		url:             matchers.Literal(url),
		headers:         make(map[string]matchers.Matcher),
		explicitURL:     true,
		explicitHeaders: make(map[string]bool),
	}
}

// MatchURL replaces the URL constraint with a matcher.
func (e *Entry) MatchURL(m matchers.Matcher) *Entry {
	e.url = m
	e.explicitURL = true
	return e
}

// MatchBody constrains the request body. Entries without a body
// constraint accept any body, including none.
func (e *Entry) MatchBody(m matchers.Matcher) *Entry {
	e.body = m
	e.explicitBody = true
	return e
}

// MatchBodyEquals constrains the body to an exact literal.
func (e *Entry) MatchBodyEquals(body string) *Entry {
	return e.MatchBody(matchers.Literal(body))
}

// MatchHeader constrains a single request header. Specified headers
// are a subset constraint: headers on the real request that no matcher
// names are ignored.
func (e *Entry) MatchHeader(name string, m matchers.Matcher) *Entry {
	e.headers[name] = m
	e.explicitHeaders[name] = true
	return e
}

// MatchHeaderValue constrains a header to an exact literal.
func (e *Entry) MatchHeaderValue(name, value string) *Entry {
	return e.MatchHeader(name, matchers.Literal(value))
}

// RespondWith attaches the response producer.
func (e *Entry) RespondWith(r Responder) *Entry {
	e.responder = r
	return e
}

// Respond attaches a static response.
func (e *Entry) Respond(status int, headers map[string]string, body string) *Entry {
	return e.RespondWith(&StaticResponder{Status: status, Headers: headers, Body: body})
}

// ID returns the entry's registration identifier. It is zero until the
// entry is registered; registered ids are unique and strictly
// increasing for the life of the store's id sequence, across clears.
func (e *Entry) ID() int64 { return e.id }

// Method returns the expected method as registered.
func (e *Entry) Method() string { return e.method }

// Calls returns a copy of the ordered request snapshots that matched
// this entry. The history is append-only and never shrinks.
func (e *Entry) Calls() []CallRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]CallRecord, len(e.calls))
	copy(out, e.calls)
	return out
}

// CallCount returns how many requests have matched this entry.
func (e *Entry) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// PendingReplay reports whether the entry still needs its owning
// client's middleware pipeline replayed before matching is meaningful.
// Raw entries are never pending.
func (e *Entry) PendingReplay() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pendingReplay
}

func (e *Entry) recordCall(req *client.Request) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, CallRecord{
		Method:  req.Method(),
		URL:     req.URL(),
		Body:    req.Body(),
		HasBody: req.HasBody(),
		Headers: req.Headers(),
	})
}

// pattern is a stable view of the entry's match constraints, taken
// under the entry lock so matching never observes a half-absorbed
// replay.
type pattern struct {
	method  string
	url     matchers.Matcher
	body    matchers.Matcher
	headers map[string]matchers.Matcher
}

func (e *Entry) snapshotPattern() pattern {
	e.mu.Lock()
	defer e.mu.Unlock()
	headers := make(map[string]matchers.Matcher, len(e.headers))
	for k, v := range e.headers {
		headers[k] = v
	}
	return pattern{method: e.method, url: e.url, body: e.body, headers: headers}
}

// matchesExact reports whether the request satisfies every constraint:
// method (case-insensitive), url, body (absent constraint always
// satisfies), and each specified header. Extra request headers are
// permitted.
func (e *Entry) matchesExact(req *client.Request) bool {
	p := e.snapshotPattern()
	if !p.matchesPartial(req) {
		return false
	}
	if p.body != nil && !p.body.Match(req.Body()) {
		return false
	}
	reqHeaders := req.Headers()
	for name, m := range p.headers {
		value, _ := headerLookup(reqHeaders, name)
		if !m.Match(value) {
			return false
		}
	}
	return true
}

// matchesPartial reports whether only method and url match; body and
// header constraints are ignored. Used for diagnostics only.
func (e *Entry) matchesPartial(req *client.Request) bool {
	return e.snapshotPattern().matchesPartial(req)
}

func (p pattern) matchesPartial(req *client.Request) bool {
	return methodsEqual(p.method, req.Method()) && p.url.Match(req.URL())
}

func (e *Entry) respond(req *client.Request) (*client.Response, error) {
	if e.responder == nil {
		return client.NewResponse(200, nil, ""), nil
	}
	return e.responder.Respond(req)
}
