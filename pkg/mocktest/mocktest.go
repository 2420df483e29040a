// Package mocktest is the test-facing surface of the mock engine: it
// installs a registry-backed gateway into a client configuration for
// the duration of a test, offers a fluent builder for expectations,
// and provides call assertions. Uninstall is registered with
// testing.TB.Cleanup, so the gateway is restored on every exit path,
// including test failure.
package mocktest

import (
	"strings"
	"testing"

	"github.com/clientmock/clientmock/pkg/client"
	"github.com/clientmock/clientmock/pkg/mock"
)

// Mocker owns a test's mock registry and the installed gateway
// override.
type Mocker struct {
	t      testing.TB
	cfg    *client.Config
	store  *mock.Store
	handle *mock.Handle
}

// New installs a mock gateway into cfg and schedules its removal (and
// the registry's teardown) for test cleanup.
func New(t testing.TB, cfg *client.Config) *Mocker {
	t.Helper()

	store := mock.NewStore()
	handle := mock.Install(cfg, store)
	t.Cleanup(handle.Uninstall)

	return &Mocker{t: t, cfg: cfg, store: store, handle: handle}
}

// Store exposes the underlying registry for advanced use.
func (m *Mocker) Store() *mock.Store { return m.store }

// Mock starts a raw expectation for the given method and exact URL.
// Finish the chain with Reply.
//
//	mt.Mock("GET", "/users/123").
//	    WithStatus(200).
//	    WithJSON(user).
//	    Reply()
func (m *Mocker) Mock(method, url string) *Builder {
	m.t.Helper()
	return &Builder{mocker: m, entry: mock.NewEntry(method, url)}
}

// MockClient starts an expectation bound to a live client: the
// client's pre-send middleware is replayed over the template request
// before matching, so hook-injected headers are expected too.
func (m *Mocker) MockClient(c *client.Client, template *client.Request) *Builder {
	m.t.Helper()
	return &Builder{mocker: m, entry: mock.NewClientEntry(c, template)}
}

// Clear empties the registry between test cases.
func (m *Mocker) Clear() {
	m.t.Helper()
	m.store.Clear()
}

// UnusedCount returns how many registered expectations have not
// matched any request.
func (m *Mocker) UnusedCount() int {
	return m.store.UnusedCount()
}

// AssertCalled asserts that some expectation matched at least one
// request with the given method and url.
func (m *Mocker) AssertCalled(method, url string) {
	m.t.Helper()
	if m.countCalls(method, url) == 0 {
		m.t.Errorf("expected %s %s to be called, but it was not", strings.ToUpper(method), url)
	}
}

// AssertCalledTimes asserts an exact number of matched requests for
// the given method and url.
func (m *Mocker) AssertCalledTimes(method, url string, times int) {
	m.t.Helper()
	if count := m.countCalls(method, url); count != times {
		m.t.Errorf("expected %s %s to be called %d times, but was called %d times",
			strings.ToUpper(method), url, times, count)
	}
}

// AssertNotCalled asserts that no expectation matched a request with
// the given method and url.
func (m *Mocker) AssertNotCalled(method, url string) {
	m.t.Helper()
	if count := m.countCalls(method, url); count > 0 {
		m.t.Errorf("expected %s %s to not be called, but it was called %d times",
			strings.ToUpper(method), url, count)
	}
}

func (m *Mocker) countCalls(method, url string) int {
	count := 0
	for _, e := range m.store.Entries() {
		for _, call := range e.Calls() {
			if strings.EqualFold(call.Method, method) && call.URL == url {
				count++
			}
		}
	}
	return count
}
