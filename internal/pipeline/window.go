package pipeline

import "time"

// Window is an inclusive time interval covering whole calendar days.
type Window struct {
	Lower time.Time `json:"lower"`
	Upper time.Time `json:"upper"`
}

// NormalizeRange expands a (start, end) day selection into an inclusive
// window from 00:00:00 on start to 23:59:59 on end, in the location of the
// inputs. start after end is not an error; it yields a window that matches
// no record.
func NormalizeRange(start, end time.Time) Window {
	return Window{
		Lower: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		Upper: time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location()),
	}
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Lower) && !t.After(w.Upper)
}
