package missions

import "time"

// DayKeyIn formats an instant as the "YYYY-MM-DD" day key in the given
// zone. Every day comparison in the package goes through this; assignment
// idempotency depends on two calls on the same day producing an identical
// key.
func DayKeyIn(t time.Time, zone *time.Location) string {
	return t.In(zone).Format("2006-01-02")
}

// seedHash is the rolling hash behind deterministic selection:
// h = h*31 + char, truncated to signed 32 bits, absolute value. Stability
// across restarts is the only requirement; it is intentionally not a
// cryptographic hash.
func seedHash(s string) int {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	if h == -2147483648 {
		return 0
	}
	if h < 0 {
		h = -h
	}
	return int(h)
}
