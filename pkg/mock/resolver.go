package mock

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/clientmock/clientmock/pkg/client"
)

// Outcome classifies a resolution against the registry.
type Outcome int

const (
	// OutcomeNone means no entry matched even partially.
	OutcomeNone Outcome = iota
	// OutcomePartial means some entry matched method and url but every
	// candidate failed its body or header constraints.
	OutcomePartial
	// OutcomeExact means an entry satisfied every constraint.
	OutcomeExact
)

// Result is the closed outcome of resolving a request: exactly one of
// the three outcomes, with the winning entry on an exact match and the
// closest partial candidate on a partial one. The Lookup boundary
// converts Partial and None into surfaced errors.
type Result struct {
	Outcome Outcome

	// Entry is the exact-matched entry (nil otherwise).
	Entry *Entry

	// Partial is the last partially matching entry (nil unless
	// Outcome is OutcomePartial).
	Partial *Entry
}

// Resolve matches a request against the registry.
//
// Among entries satisfying every constraint, the one registered last
// wins; later registrations with an identical signature deliberately
// override earlier ones. The winning entry records a snapshot of the
// request. Entries matching only method and url are reported as a
// partial result for diagnostics.
func (s *Store) Resolve(req *client.Request) Result {
	entries := s.snapshot()

	var exact, partial *Entry
	for _, e := range entries {
		if e.matchesExact(req) {
			exact = e
		} else if e.matchesPartial(req) {
			partial = e
		}
	}

	if exact != nil {
		exact.recordCall(req)
		s.logger.Debug("request matched",
			"id", exact.id,
			"method", req.Method(),
			"url", req.URL())
		return Result{Outcome: OutcomeExact, Entry: exact}
	}

	if partial != nil {
		s.logger.Debug("request matched partially",
			"closest", partial.id,
			"method", req.Method(),
			"url", req.URL())
		return Result{Outcome: OutcomePartial, Partial: partial}
	}

	s.logger.Debug("request did not match",
		"method", req.Method(),
		"url", req.URL())
	return Result{Outcome: OutcomeNone}
}

// Lookup resolves a request synchronously against the current registry
// state and produces the matched entry's response. It never suspends:
// entries with pending middleware replays are matched as-is. A partial
// match fails with *PartialMatchError, no match with *NoMatchError;
// both are fatal to the calling test and are never retried or
// swallowed here.
func (s *Store) Lookup(req *client.Request) (*client.Response, error) {
	res := s.Resolve(req)
	switch res.Outcome {
	case OutcomeExact:
		return res.Entry.respond(req)
	case OutcomePartial:
		return nil, &PartialMatchError{Request: req, Entry: res.Partial}
	default:
		return nil, &NoMatchError{Request: req}
	}
}

// LookupContext first replays the middleware pipeline of every entry
// still pending execution — all replays are launched concurrently and
// all must settle before matching — then performs the synchronous
// lookup. Each replay mutates only its own entry, so launch order does
// not affect the final match, which still resolves by registration
// order. A failed replay is fatal and surfaces immediately.
func (s *Store) LookupContext(ctx context.Context, req *client.Request) (*client.Response, error) {
	var pending []*Entry
	for _, e := range s.snapshot() {
		if e.PendingReplay() {
			pending = append(pending, e)
		}
	}

	if len(pending) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, e := range pending {
			e := e
			g.Go(func() error {
				return e.ExecuteMiddleware(gctx)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return s.Lookup(req)
}
