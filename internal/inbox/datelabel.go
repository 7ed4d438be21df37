package inbox

import (
	"strings"
	"time"
)

func clock(t time.Time) string {
	return strings.ToLower(t.Format("3:04PM"))
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// ListDateLabel formats a message date for a list row relative to now:
// a time today, "Yesterday", a weekday within the same ISO week, otherwise
// a short date. Both times are compared in now's location.
func ListDateLabel(date, now time.Time) string {
	date = date.In(now.Location())
	switch {
	case sameDay(date, now):
		return clock(date)
	case sameDay(date, now.AddDate(0, 0, -1)):
		return "Yesterday"
	case sameISOWeek(date, now):
		return date.Format("Monday")
	default:
		return date.Format("2 Jan 2006")
	}
}

// DetailDateLabel formats the "Received ..." line of an opened message.
func DetailDateLabel(date, now time.Time) string {
	date = date.In(now.Location())
	at := clock(date)
	switch {
	case sameDay(date, now):
		return "Received today at " + at
	case sameDay(date, now.AddDate(0, 0, -1)):
		return "Received yesterday at " + at
	case sameISOWeek(date, now):
		return "Received on " + date.Format("Monday") + " at " + at
	default:
		return "Received " + date.Format("2 January 2006") + " at " + at
	}
}
