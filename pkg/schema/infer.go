package schema

import (
	"regexp"
	"time"
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// timestampLayouts are tried in order by ParseTimestamp. The list covers the
// formats the remote store actually emits plus a few common hand-entered ones.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Infer classifies a raw sampled value. The rules run in priority order and
// never fail; anything unrecognized is text. A numeric-looking string (e.g. a
// phone number) is deliberately text, not numeric, so it can render as a
// contact link.
func Infer(value any) Type {
	switch v := value.(type) {
	case nil:
		return TypeText
	case string:
		if uuidPattern.MatchString(v) {
			return TypeUUID
		}
		if _, ok := ParseTimestamp(v); ok {
			return TypeTimestamp
		}
		return TypeText
	case float64:
		if v == float64(int64(v)) {
			return TypeInteger
		}
		return TypeNumeric
	case float32:
		if v == float32(int64(v)) {
			return TypeInteger
		}
		return TypeNumeric
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeInteger
	case bool:
		return TypeBoolean
	case time.Time:
		return TypeTimestamp
	default:
		return TypeText
	}
}

// ParseTimestamp parses a date/time string against the known layouts.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
