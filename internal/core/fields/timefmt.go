package fields

import (
	"encoding/json"
	"strings"
	"time"
)

// layouts the client is known to emit; zone-less values are taken as UTC
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Time parses a report timestamp; unparsable input gives the zero time
// and the backend stamps its own receive time
func Time(v any) time.Time {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, l := range layouts {
			if ts, err := time.ParseInLocation(l, s, time.UTC); err == nil {
				return ts.UTC()
			}
		}
	case json.Number:
		if f, err := t.Float64(); err == nil && f > 0 {
			sec := int64(f)
			return time.Unix(sec, int64((f-float64(sec))*1e9)).UTC()
		}
	case float64:
		if t > 0 {
			sec := int64(t)
			return time.Unix(sec, int64((t-float64(sec))*1e9)).UTC()
		}
	}
	return time.Time{}
}
