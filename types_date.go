package fiscal

import "github.com/etnz/fiscal/date"

// Date is a day-granularity calendar date.
type Date = date.Date

// Range is a range of dates, boundaries included.
type Range = date.Range

// NewDate returns a normalized Date for the given year, month, and day.
var NewDate = date.New

// ParseDate parses a date in the permissive YYYY-M-D format.
var ParseDate = date.Parse

// Today returns the current date.
var Today = date.Today
