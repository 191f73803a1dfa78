package models

import "time"

// DateLayout is the wire and map-key format of calendar dates.
const DateLayout = "2006-01-02"

func utcNow() time.Time {
	return time.Now().UTC()
}

var clock = utcNow

// DateOf drops the time of day, keeping the calendar date as midnight UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current UTC calendar date, whatever zone the clock reports in.
func Today() time.Time {
	return DateOf(clock().UTC())
}
