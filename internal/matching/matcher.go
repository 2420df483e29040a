package matching

import "strings"

// MatchMethod reports whether two HTTP methods are equal, ignoring case.
func MatchMethod(expected, actual string) bool {
	return strings.EqualFold(expected, actual)
}

// HeaderValue looks up a header by name, ignoring case, and reports
// whether it was present.
func HeaderValue(headers map[string]string, name string) (string, bool) {
	if v, ok := headers[name]; ok {
		return v, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

// Contains reports whether sample occurs as a contiguous substring of
// candidate. It is an explicit offset-bounded scan rather than a call
// into the runtime's substring search, so the contract is identical on
// every platform: an empty sample always matches, and a sample longer
// than the candidate never does.
func Contains(candidate, sample string) bool {
	if len(sample) == 0 {
		return true
	}
	if len(sample) > len(candidate) {
		return false
	}
	for offset := 0; offset <= len(candidate)-len(sample); offset++ {
		i := 0
		for i < len(sample) && candidate[offset+i] == sample[i] {
			i++
		}
		if i == len(sample) {
			return true
		}
	}
	return false
}

// IsUUID4 reports whether s has the exact structure
// XXXXXXXX-XXXX-4XXX-[89ab]XXX-XXXXXXXXXXXX where X is a hexadecimal
// digit. The check is case-insensitive and enforces the version nibble
// (4) and the RFC 4122 variant nibble (8, 9, a or b).
func IsUUID4(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i := 0; i < 36; i++ {
		c := s[i]
		switch i {
		case 8, 13, 18, 23:
			if c != '-' {
				return false
			}
		case 14:
			if c != '4' {
				return false
			}
		case 19:
			switch c {
			case '8', '9', 'a', 'b', 'A', 'B':
			default:
				return false
			}
		default:
			if !isHexDigit(c) {
				return false
			}
		}
	}
	return true
}

func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}
	return false
}
