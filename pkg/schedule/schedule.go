package schedule

import (
	"fmt"
	"time"
)

// Schedule is an ordered sequence of wait-day values indexed by how many
// times a prompt has already been shown. Entries must be non-decreasing so
// that repeated prompts back off rather than speed up. Fractional days are
// allowed (0.5 = 12 hours).
type Schedule []float64

// DefaultReview is the progressive backoff used by the main review surface.
// It ramps quickly for the first prompts and flattens out at 240 days.
var DefaultReview = Schedule{0.5, 1, 2, 3, 4, 5, 10, 20, 30, 60, 90, 120, 150, 180, 210, 240}

// Validate checks that the schedule is usable: non-empty, no negative
// entries, and monotonically non-decreasing.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule is empty")
	}

	for i, v := range s {
		if v < 0 {
			return fmt.Errorf("schedule entry %d is negative: %v", i, v)
		}
		if i > 0 && v < s[i-1] {
			return fmt.Errorf("schedule entry %d (%v) is smaller than entry %d (%v)", i, v, i-1, s[i-1])
		}
	}

	return nil
}

// WaitDays returns the wait for the given request count. Out-of-range counts
// clamp to the schedule bounds, so the final entry applies forever.
func (s Schedule) WaitDays(requestCount int) float64 {
	if len(s) == 0 {
		return 0
	}

	idx := requestCount
	if idx < 0 {
		idx = 0
	}
	if idx > len(s)-1 {
		idx = len(s) - 1
	}

	return s[idx]
}

// NextEligibleAt computes when the next prompt may be shown, given how many
// prompts have been shown already and the baseline time (the last prompt
// time, or the tenant creation time when no prompt has been shown yet).
func (s Schedule) NextEligibleAt(requestCount int, baseline time.Time) time.Time {
	waitDays := s.WaitDays(requestCount)
	return baseline.Add(time.Duration(waitDays * 24 * float64(time.Hour)))
}

// Expired reports whether the cooldown ending at nextEligible has passed.
// The comparison is strict: a timestamp exactly on the boundary is still
// within cooldown.
func Expired(nextEligible, now time.Time) bool {
	return now.After(nextEligible)
}
