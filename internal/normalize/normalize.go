// Package normalize parses the heterogeneous raw fields found in partition
// records (tags in four encodings, counters as string or number, epochs in
// seconds or milliseconds) into canonical types. Nothing here returns an
// error: malformed input degrades to a type-appropriate zero value.
package normalize

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
)

// tagDelimiters covers ASCII and full-width comma, ideographic comma and
// both semicolon forms.
const tagDelimiters = ",，、;；"

// Tags parses a raw tag field into a clean ordered list. Accepted shapes:
// a native array, a JSON-encoded array or object string, or a plain
// delimited string. Tags are trimmed, stripped of a leading '#', and empty
// entries are dropped. Parse failures degrade to delimiter splitting.
func Tags(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanTags(v)
	case []any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			tags = append(tags, Stringify(t))
		}
		return cleanTags(tags)
	case map[string]any:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			if s, ok := t.(string); ok {
				tags = append(tags, s)
			}
		}
		return cleanTags(tags)
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return []string{}
		}
		if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
			if parsed, ok := parseStructuredTags(trimmed); ok {
				return parsed
			}
			slog.Debug("structured tag parse failed, falling back to split", "raw", trimmed)
		}
		return cleanTags(strings.FieldsFunc(trimmed, func(r rune) bool {
			return strings.ContainsRune(tagDelimiters, r)
		}))
	default:
		return []string{}
	}
}

func parseStructuredTags(s string) ([]string, bool) {
	if strings.HasPrefix(s, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, false
		}
		return Tags(arr), true
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return Tags(obj), true
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SafeParseInt coerces a raw numeric field to an int. Numbers are floored,
// numeric strings are parsed base 10 up to the first non-digit, anything
// else yields def.
func SafeParseInt(raw any, def int) int {
	switch v := raw.(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float32:
		return int(math.Floor(float64(v)))
	case float64:
		return int(math.Floor(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int(math.Floor(f))
		}
		return def
	case string:
		if n, ok := parseIntPrefix(v); ok {
			return n
		}
		return def
	default:
		return def
	}
}

// parseIntPrefix parses the leading integer of a string the way a lenient
// base-10 parser does: optional sign, then digits; trailing garbage ignored.
func parseIntPrefix(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		i++
	}
	n := 0
	digits := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// Epoch coerces a raw time field to an int64 epoch value, leaving the
// seconds-vs-milliseconds ambiguity to EpochToTime. Missing or unparseable
// input yields 0.
func Epoch(raw any) int64 {
	switch v := raw.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(math.Floor(v))
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return int64(math.Floor(f))
		}
		return 0
	case string:
		if n, ok := parseIntPrefix(strings.TrimSpace(v)); ok {
			return int64(n)
		}
		return 0
	default:
		return 0
	}
}

// msThreshold separates second-precision from millisecond-precision epochs.
// Values above it are far future as seconds, so they are read as millis.
const msThreshold = int64(1e10)

// EpochToTime converts a raw epoch to a time.Time, treating values above
// 1e10 as milliseconds and everything else as seconds. Applied consistently
// wherever epoch values are rendered.
func EpochToTime(v int64) time.Time {
	if v > msThreshold {
		return time.UnixMilli(v)
	}
	return time.Unix(v, 0)
}

// Stringify renders a raw JSON value as a string for id and tag fields that
// arrive as either strings or numbers.
func Stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FirstString evaluates a prioritized list of candidate field names against
// a raw record and returns the first non-empty value, stringified. This is
// the accessor-table primitive used for every field-name variant.
func FirstString(record map[string]any, keys ...string) string {
	for _, k := range keys {
		if raw, ok := record[k]; ok {
			if s := strings.TrimSpace(Stringify(raw)); s != "" {
				return s
			}
		}
	}
	return ""
}

// FirstRaw returns the first present, non-nil candidate field as-is.
func FirstRaw(record map[string]any, keys ...string) any {
	for _, k := range keys {
		if raw, ok := record[k]; ok && raw != nil {
			return raw
		}
	}
	return nil
}
