// Package validity normalizes the heterogeneous boolean encodings that show
// up in reviewer verdict cells. Extraction and aggregation both call
// Normalize; keeping a single mapping here is a correctness invariant, not a
// style choice.
package validity

import "strings"

// Verdict is the ternary outcome of normalizing a raw validation value.
type Verdict int

const (
	Unknown Verdict = iota
	Valid
	Invalid
)

// String returns the lowercase verdict name.
func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Resolved reports whether the verdict is definitively valid or invalid.
func (v Verdict) Resolved() bool { return v == Valid || v == Invalid }

var truthy = map[string]bool{
	"true":  true,
	"1":     true,
	"yes":   true,
	"valid": true,
}

var falsy = map[string]bool{
	"false":   true,
	"0":       true,
	"no":      true,
	"invalid": true,
}

// Normalize maps a raw cell value to a Verdict. The value is trimmed and
// lowercased; {true, 1, yes, valid} resolve to Valid, {false, 0, no, invalid}
// to Invalid, and everything else (including the empty string) to Unknown.
func Normalize(raw string) Verdict {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case truthy[v]:
		return Valid
	case falsy[v]:
		return Invalid
	default:
		return Unknown
	}
}

// Missing reports whether a raw cell value is the missing-value marker.
// Only whitespace-only cells count as missing; a value like "n/a" is present
// but ambiguous, and must still produce a record.
func Missing(raw string) bool {
	return strings.TrimSpace(raw) == ""
}
