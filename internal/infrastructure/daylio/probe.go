package daylio

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// decoder converts a raw JSON value into T, reporting whether it could.
type decoder[T any] func(raw any) (T, bool)

type fieldProbe[T any] struct {
	field  string
	decode decoder[T]
}

func fields[T any](decode decoder[T], names ...string) []fieldProbe[T] {
	probes := make([]fieldProbe[T], 0, len(names))
	for _, name := range names {
		probes = append(probes, fieldProbe[T]{field: name, decode: decode})
	}
	return probes
}

// probe returns the first value a probe decodes, walking the probes in order.
// Missing and null fields are skipped.
func probe[T any](record map[string]any, probes []fieldProbe[T]) (T, bool) {
	for _, p := range probes {
		raw, ok := record[p.field]
		if !ok || raw == nil {
			continue
		}
		if value, ok := p.decode(raw); ok {
			return value, true
		}
	}
	var zero T
	return zero, false
}

func asAny(raw any) (any, bool) {
	return raw, raw != nil
}

func asObject(raw any) (map[string]any, bool) {
	obj, ok := raw.(map[string]any)
	return obj, ok
}

func asList(raw any) ([]any, bool) {
	list, ok := raw.([]any)
	return list, ok
}

// asText accepts strings and scalars, trimmed, and rejects blank results.
func asText(raw any) (string, bool) {
	var text string
	switch v := raw.(type) {
	case string:
		text = v
	case json.Number:
		text = v.String()
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		text = strconv.FormatBool(v)
	default:
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// asInt accepts integral numbers, truncated floats and integer strings.
func asInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return clampInt64(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return truncFloat(f)
	case float64:
		return truncFloat(v)
	case int:
		return v, true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return clampInt64(n), true
	}
	return 0, false
}

func truncFloat(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f > math.MaxInt32 {
		return math.MaxInt32, true
	}
	if f < math.MinInt32 {
		return math.MinInt32, true
	}
	return int(f), true
}

func clampInt64(n int64) int {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < math.MinInt32 {
		return math.MinInt32
	}
	return int(n)
}

const millisecondEpochThreshold = 1e12

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// asTimestamp understands epoch seconds or milliseconds (as numbers or digit
// strings) and ISO-like text. Text without an offset is taken as UTC.
func asTimestamp(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return fromEpoch(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return fromEpochFloat(f)
	case float64:
		return fromEpochFloat(v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return time.Time{}, false
		}
		if isDigits(text) {
			n, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return time.Time{}, false
			}
			return fromEpoch(n), true
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, text); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func fromEpoch(n int64) time.Time {
	if n > millisecondEpochThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func fromEpochFloat(f float64) (time.Time, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f > millisecondEpochThreshold {
		f /= 1000
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
