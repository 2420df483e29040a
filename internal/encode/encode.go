// Package encode flattens request bodies and header maps into a
// query-string-style representation for diagnostics. The output is
// display-only and is never used for matching.
package encode

import (
	"fmt"
	"sort"
	"strings"
)

// Flatten renders a string map as "k=v&k2=v2" with keys sorted so the
// output is stable across runs.
func Flatten(m map[string]string) string {
	if len(m) == 0 {
		return ""
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(m[k])
	}
	return sb.String()
}

// FlattenAny renders a value for diagnostics. Maps become "k=v&..."
// pairs, everything else is printed with %v. Nil renders as an empty
// string.
func FlattenAny(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case map[string]string:
		return Flatten(val)
	case map[string]any:
		flat := make(map[string]string, len(val))
		for k, item := range val {
			flat[k] = fmt.Sprintf("%v", item)
		}
		return Flatten(flat)
	default:
		return fmt.Sprintf("%v", val)
	}
}
