// Package conflict decides whether a booking interval may be admitted into
// the shared lesson calendar. It is pure: callers read the active set, ask
// for a verdict, and commit the write themselves (under the repository's
// lock and transaction so check-then-act stays atomic).
package conflict

import (
	"time"

	"github.com/MuhammadFeyaz/go2koereskole/pkg/model"
)

const clockLayout = "2006-01-02 15:04"

// Interval is the half-open time range [Start, End) occupied by a lesson.
type Interval struct {
	Start time.Time
	End   time.Time
}

// FromClock builds an interval from a civil date ("2006-01-02"), a wall-clock
// start time ("15:04") and a duration in minutes. The second return value is
// false when the fields do not form a valid instant; invalid intervals never
// overlap anything.
func FromClock(date, startTime string, durationMin int) (Interval, bool) {
	if durationMin <= 0 {
		return Interval{}, false
	}

	start, err := time.Parse(clockLayout, date+" "+startTime)
	if err != nil {
		return Interval{}, false
	}

	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMin) * time.Minute),
	}, true
}

// FromBooking derives the booking's interval from its scheduling fields.
func FromBooking(b *model.Booking) (Interval, bool) {
	return FromClock(b.Date, b.StartTime, b.DurationMin)
}

// Overlaps reports whether two half-open intervals intersect. Strict
// inequality on both sides: a lesson ending at 10:00 and one starting at
// 10:00 are back-to-back, not overlapping.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FirstConflict returns the first existing booking whose interval overlaps
// the candidate's, or nil when the candidate may be admitted.
//
// Rules:
//   - Denied bookings are skipped; they no longer reserve their slot.
//   - A row with the candidate's own ID is skipped, so re-checking a stored
//     booking at approval time never reports a conflict with itself.
//   - Stored rows whose date/time fields fail to parse are skipped rather
//     than treated as blocking. New submissions can never be in that state;
//     the input validator rejects malformed fields before admission.
//
// Which of several conflicting bookings is returned is unspecified.
func FirstConflict(candidate *model.Booking, existing []*model.Booking) *model.Booking {
	ci, ok := FromBooking(candidate)
	if !ok {
		return nil
	}

	for _, b := range existing {
		if b.ID != "" && b.ID == candidate.ID {
			continue
		}
		if !b.IsActive() {
			continue
		}

		bi, ok := FromBooking(b)
		if !ok {
			continue
		}

		if Overlaps(ci, bi) {
			return b
		}
	}

	return nil
}
