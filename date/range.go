package date

import (
	"fmt"
	"iter"
	"time"
)

// Range represents a range of dates, boundaries included.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange return the well known period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Year returns the range of the calendar year.
func Year(y int) Range { return NewRange(New(y, time.January, 1), Yearly) }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Previous returns the range of the same length that ends the day before r starts.
// Standard periods are shifted as periods (the month before a month, not 30 days).
func (r Range) Previous() Range {
	if p, ok := r.Period(); ok {
		return NewRange(r.From.Add(-1), p)
	}
	days := r.From.DaysBetween(r.To)
	to := r.From.Add(-1)
	return Range{From: to.Add(-days), To: to}
}

// Split iterates over the consecutive periods p covering r.
func (r Range) Split(p Period) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for d := r.From; !d.After(r.To); d = d.EndOf(p).Add(1) {
			sub := NewRange(d, p)
			if sub.From.Before(r.From) {
				sub.From = r.From
			}
			if sub.To.After(r.To) {
				sub.To = r.To
			}
			if !yield(sub) {
				return
			}
		}
	}
}

// Period returns the period of this range if it's a standard one.
func (r Range) Period() (p Period, ok bool) {
	switch {
	case r.From == r.To:
		return Daily, true
	case r.From.Weekday() == time.Monday && r.From.EndOf(Weekly) == r.To:
		return Weekly, true
	case r.From.Day() == 1 && r.From.EndOf(Monthly) == r.To:
		return Monthly, true
	case r.From.StartOf(Quarterly) == r.From && r.From.EndOf(Quarterly) == r.To:
		return Quarterly, true
	case r.From.StartOf(Yearly) == r.From && r.From.EndOf(Yearly) == r.To:
		return Yearly, true
	default:
		return Daily, false
	}
}

// Identifier compute a unique identifier for the Range.
// If the period is defined, use a short insighful name
func (r Range) Identifier() string {
	p, ok := r.Period()
	if !ok {
		return fmt.Sprintf("%s_%s", r.From, r.To)
	}

	switch p {
	case Daily:
		return r.From.String()
	case Weekly:
		_, week := r.From.ISOWeek()
		return fmt.Sprintf("%d-W%02d", r.From.Year(), week)
	case Monthly:
		return r.From.Format("2006-01")
	case Quarterly:
		return fmt.Sprintf("%d-Q%d", r.From.Year(), r.From.Quarter())
	case Yearly:
		return r.From.Format("2006")
	default:
		panic("unknown period")
	}
}

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISOWeek returns the ISO 8601 year and week number in which d occurs.
func (d Date) ISOWeek() (year, week int) { return d.time().ISOWeek() }
