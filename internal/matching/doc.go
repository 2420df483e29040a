// Package matching provides the field-level predicates the mock
// resolver is built from: case-insensitive method comparison, header
// lookup, an explicit substring scan, UUID v4 structural checks, and
// JSONPath conditions against JSON bodies.
package matching
