package helpers

import (
	"fmt"
	"time"
)

const emailTimeLayout = "02 January 2006, 15:04 MST"

// LocalizeTimes rewrites data["Time"] from data["TimeAt"] in loc.
func LocalizeTimes(data map[string]any, loc *time.Location) {
	if loc == nil || data == nil {
		return
	}
	v, ok := data["TimeAt"]
	if !ok {
		return
	}
	t, ok := parseTimeAny(v)
	if !ok || t.IsZero() {
		return
	}
	data["Time"] = t.In(loc).Format(emailTimeLayout)
}

func parseTimeAny(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := fmt.Sprintf("%v", v)
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
