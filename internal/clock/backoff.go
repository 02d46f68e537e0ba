package clock

import "time"

// Backoff doubles a retry delay between consecutive failures up to a cap.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration

	current time.Duration
}

// Next returns the delay to wait before the next retry.
func (b *Backoff) Next() time.Duration {
	switch {
	case b.current <= 0:
		b.current = b.Initial
	case b.current < b.Max:
		b.current *= 2
	}
	if b.Max > 0 && b.current > b.Max {
		b.current = b.Max
	}
	return b.current
}

// Reset starts the next failure sequence from Initial.
func (b *Backoff) Reset() {
	b.current = 0
}
