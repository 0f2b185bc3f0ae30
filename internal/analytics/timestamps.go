package analytics

import "time"

// EventTimestamp prefers the timestamp carried in the event payload over
// the envelope's occurred_at, falling back when the payload omits it.
func EventTimestamp(payloadAt time.Time, fallback time.Time) time.Time {
	if !payloadAt.IsZero() {
		return payloadAt.UTC()
	}
	return fallback.UTC()
}
