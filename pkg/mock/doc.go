// Package mock is the request registry and matching engine used to
// test code built on the client abstraction. Tests register expected
// request/response pairs in a Store, install a registry-backed gateway
// into the client configuration, and let production code run; every
// outgoing request is resolved against the registry instead of the
// network. Matching is exact-or-fail with partial-match diagnostics,
// and client-bound expectations replay the owning client's middleware
// pipeline before matching so mocked traffic observes the same side
// effects as real traffic.
package mock
