package types

// MonthRange is an inclusive range of months. A nil End means the
// range is unbounded into the future.
type MonthRange struct {
	Start Month
	End   *Month
}

// NewMonthRange returns a new MonthRange.
func NewMonthRange(start Month, end *Month) MonthRange {
	return MonthRange{Start: start, End: end}
}

// Valid reports whether the range is well-formed, meaning the end is
// either unbounded or not before the start.
func (r MonthRange) Valid() bool {
	return r.End == nil || !r.End.Before(r.Start)
}

// Contains reports whether the month lies within the range.
func (r MonthRange) Contains(m Month) bool {
	if m.Before(r.Start) {
		return false
	}

	return r.End == nil || !m.After(*r.End)
}

// Overlaps reports whether two ranges share at least one month.
func (r MonthRange) Overlaps(o MonthRange) bool {
	if o.End != nil && o.End.Before(r.Start) {
		return false
	}

	if r.End != nil && r.End.Before(o.Start) {
		return false
	}

	return true
}
