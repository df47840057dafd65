package timeserver

import "time"

// Server time is pinned to UTC+7 regardless of host timezone.
// Every validation, timestamp and job-delay computation goes through this
// package so the whole system agrees on one clock.

var serverZone = time.FixedZone("UTC+7", 7*60*60)

// Now returns the current server time in the fixed UTC+7 zone.
func Now() time.Time {
	return time.Now().In(serverZone)
}

// In converts an arbitrary timestamp into the server zone.
func In(t time.Time) time.Time {
	return t.In(serverZone)
}

// Zone returns the fixed server timezone.
func Zone() *time.Location {
	return serverZone
}

// MonthWindow returns the [start, end) interval of the month containing t,
// in server time. Used by the list endpoints that scope results to one month.
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.In(serverZone)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, serverZone)
	return start, start.AddDate(0, 1, 0)
}
