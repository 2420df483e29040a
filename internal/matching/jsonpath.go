package matching

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/ohler55/ojg/jp"
)

// JSONPathCondition is a compiled JSONPath expression paired with the
// value it must select from a JSON body.
type JSONPathCondition struct {
	path     string
	compiled jp.Expr
	expected any
}

// CompileJSONPath parses a JSONPath expression at load time. Returns an
// error if the expression is invalid so misconfigured conditions fail
// up front instead of silently never matching.
func CompileJSONPath(path string, expected any) (*JSONPathCondition, error) {
	compiled, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath expression %q: %w", path, err)
	}
	return &JSONPathCondition{path: path, compiled: compiled, expected: expected}, nil
}

// Path returns the original expression text.
func (c *JSONPathCondition) Path() string { return c.path }

// Expected returns the value the condition compares against.
func (c *JSONPathCondition) Expected() any { return c.expected }

// Match evaluates the condition against a JSON body. A body that is
// not valid JSON does not match; that is not an error, it just fails.
func (c *JSONPathCondition) Match(body string) bool {
	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return false
	}

	results := c.compiled.Get(data)
	for _, result := range results {
		if valuesEqual(result, c.expected) {
			return true
		}
	}
	return false
}

// valuesEqual compares two values for equality, coercing numeric types
// so that an expected int matches the float64 that encoding/json
// produces.
func valuesEqual(actual, expected any) bool {
	if actual == nil && expected == nil {
		return true
	}
	if actual == nil || expected == nil {
		return false
	}

	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	return false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	default:
		return 0, false
	}
}
