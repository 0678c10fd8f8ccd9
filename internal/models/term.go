package models

import (
	"strconv"
	"time"
)

// TermSeason names the season encoded in the last digit of a 5-digit term
// code (20253 is Fall 2025). Lookups treat terms as opaque strings; this is
// only used for display.
func TermSeason(term string) string {
	if len(term) != 5 {
		return ""
	}
	switch term[4] {
	case '1':
		return "Spring"
	case '2':
		return "Summer"
	case '3':
		return "Fall"
	default:
		return ""
	}
}

// TermLabel renders a term code as "Fall 2025", or the raw code when it does
// not follow the 5-digit format.
func TermLabel(term string) string {
	season := TermSeason(term)
	if season == "" {
		return term
	}
	return season + " " + term[:4]
}

// TermCalendar approximates the instruction window of a term for calendar
// exports: classes start on the first Monday on or after a fixed anchor date
// and run for a fixed number of weeks. ok is false for unrecognised terms.
func TermCalendar(term string, loc *time.Location) (start time.Time, weeks int, ok bool) {
	season := TermSeason(term)
	if season == "" {
		return time.Time{}, 0, false
	}
	year, err := strconv.Atoi(term[:4])
	if err != nil {
		return time.Time{}, 0, false
	}
	if loc == nil {
		loc = time.UTC
	}
	var anchor time.Time
	switch season {
	case "Spring":
		anchor, weeks = time.Date(year, time.January, 8, 0, 0, 0, 0, loc), 15
	case "Summer":
		anchor, weeks = time.Date(year, time.May, 15, 0, 0, 0, 0, loc), 12
	default:
		anchor, weeks = time.Date(year, time.August, 21, 0, 0, 0, 0, loc), 15
	}
	for anchor.Weekday() != time.Monday {
		anchor = anchor.AddDate(0, 0, 1)
	}
	return anchor, weeks, true
}
