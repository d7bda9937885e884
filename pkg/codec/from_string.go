package codec

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NumberFromString decodes a numeric string into a float64.
var NumberFromString = New[float64]("NumberFromString",
	func(u any) bool { _, ok := u.(float64); return ok },
	func(u any, c Context) (float64, Errors) {
		s, ok := u.(string)
		if !ok {
			return 0, Failure(u, c, "")
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, Failure(u, c, "")
		}
		return n, nil
	},
	func(n float64) any { return strconv.FormatFloat(n, 'f', -1, 64) })

// IntFromString decodes a base-10 integer string into an int.
var IntFromString = New[int]("IntFromString",
	func(u any) bool { _, ok := u.(int); return ok },
	func(u any, c Context) (int, Errors) {
		s, ok := u.(string)
		if !ok {
			return 0, Failure(u, c, "")
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, Failure(u, c, "")
		}
		return n, nil
	},
	func(n int) any { return strconv.Itoa(n) })

// BooleanFromString decodes "true" or "false".
var BooleanFromString = New[bool]("BooleanFromString",
	func(u any) bool { _, ok := u.(bool); return ok },
	func(u any, c Context) (bool, Errors) {
		switch u {
		case "true":
			return true, nil
		case "false":
			return false, nil
		default:
			return false, Failure(u, c, "")
		}
	},
	func(b bool) any { return strconv.FormatBool(b) })

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// DateFromISOString decodes an ISO-8601 timestamp (or an RFC 1123 HTTP date) into a time.Time.
var DateFromISOString = New[time.Time]("DateFromISOString",
	func(u any) bool { _, ok := u.(time.Time); return ok },
	func(u any, c Context) (time.Time, Errors) {
		s, ok := u.(string)
		if !ok {
			return time.Time{}, Failure(u, c, "")
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, Failure(u, c, "")
	},
	func(t time.Time) any { return t.UTC().Format("2006-01-02T15:04:05.000Z07:00") })
