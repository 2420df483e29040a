package mock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/clientmock/clientmock/internal/encode"
	"github.com/clientmock/clientmock/pkg/client"
)

// NoMatchError reports a request that no registered entry matched,
// even partially.
type NoMatchError struct {
	Request *client.Request
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("mock: no match found for request %s", describeRequest(e.Request))
}

// PartialMatchError reports a request that matched the method and url
// of at least one entry but failed body or header constraints on all
// of them. Entry is the closest candidate, included to guide
// correction.
type PartialMatchError struct {
	Request *client.Request
	Entry   *Entry
}

func (e *PartialMatchError) Error() string {
	return fmt.Sprintf(
		"mock: no exact match for request %s; closest partial match is entry #%d %s: %s",
		describeRequest(e.Request),
		e.Entry.ID(),
		describeEntry(e.Entry),
		explainMismatch(e.Entry, e.Request),
	)
}

// describeRequest renders a request as human-readable text: method
// upper-cased, url verbatim, body and headers flattened k=v&... style.
// Display only; never used for matching.
func describeRequest(req *client.Request) string {
	var sb strings.Builder
	sb.WriteString(req.Method())
	sb.WriteByte(' ')
	sb.WriteString(req.URL())
	if headers := req.Headers(); len(headers) > 0 {
		sb.WriteString(" (headers: ")
		sb.WriteString(encode.Flatten(headers))
		sb.WriteByte(')')
	}
	if req.HasBody() {
		sb.WriteString(" (body: ")
		sb.WriteString(encode.FlattenAny(req.Body()))
		sb.WriteByte(')')
	}
	return sb.String()
}

// describeEntry renders an entry's request pattern in the same shape.
func describeEntry(e *Entry) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(e.method))
	sb.WriteByte(' ')
	sb.WriteString(e.url.String())
	if len(e.headers) > 0 {
		flat := make(map[string]string, len(e.headers))
		for name, m := range e.headers {
			flat[name] = m.String()
		}
		sb.WriteString(" (headers: ")
		sb.WriteString(encode.Flatten(flat))
		sb.WriteByte(')')
	}
	if e.body != nil {
		sb.WriteString(" (body: ")
		sb.WriteString(e.body.String())
		sb.WriteByte(')')
	}
	return sb.String()
}

// explainMismatch names the first constraint the request failed,
// field by field, so the failure message points at the fix instead of
// just restating both sides.
func explainMismatch(e *Entry, req *client.Request) string {
	var failures []string

	if e.body != nil && !e.body.Match(req.Body()) {
		failures = append(failures,
			fmt.Sprintf("body expected %s, got %q", e.body.String(), req.Body()))
	}

	reqHeaders := req.Headers()
	names := make([]string, 0, len(e.headers))
	for name := range e.headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := e.headers[name]
		value, ok := headerLookup(reqHeaders, name)
		if m.Match(value) {
			continue
		}
		got := fmt.Sprintf("%q", value)
		if !ok {
			got = "(missing)"
		}
		failures = append(failures,
			fmt.Sprintf("header %s expected %s, got %s", name, m.String(), got))
	}

	if len(failures) == 0 {
		return "all specified fields matched"
	}
	return "method and url matched, but " + strings.Join(failures, "; ")
}
