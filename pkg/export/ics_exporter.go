package export

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsTimeLayout = "20060102T150405Z"

var rruleDays = map[time.Weekday]string{
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
	time.Sunday:    "SU",
}

// WeeklyEvent is a meeting that repeats on the same weekdays until Until.
// Start and End carry the first occurrence.
type WeeklyEvent struct {
	UID         string
	Summary     string
	Location    string
	Description string
	Start       time.Time
	End         time.Time
	Weekdays    []time.Weekday
	Until       time.Time
}

// ICSExporter renders weekly events as an iCalendar document.
type ICSExporter struct {
	productID string
}

// NewICSExporter constructs an ICS exporter.
func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//course-advisor//plan export//EN"
	}
	return &ICSExporter{productID: productID}
}

// Render produces a VCALENDAR with one recurring VEVENT per event.
func (e *ICSExporter) Render(name string, events []WeeklyEvent) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}

	stamp := time.Now().UTC()
	for _, ev := range events {
		if ev.UID == "" {
			return nil, fmt.Errorf("ics event %q has no uid", ev.Summary)
		}
		if !ev.End.After(ev.Start) {
			return nil, fmt.Errorf("ics event %s ends before it starts", ev.UID)
		}
		event := cal.AddEvent(ev.UID)
		event.SetDtStampTime(stamp)
		event.SetStartAt(ev.Start)
		event.SetEndAt(ev.End)
		event.SetSummary(ev.Summary)
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
		if rule := weeklyRule(ev.Weekdays, ev.Until); rule != "" {
			event.SetProperty(ics.ComponentPropertyRrule, rule)
		}
	}
	return []byte(cal.Serialize()), nil
}

func weeklyRule(days []time.Weekday, until time.Time) string {
	if len(days) == 0 {
		return ""
	}
	codes := make([]string, 0, len(days))
	for _, day := range days {
		codes = append(codes, rruleDays[day])
	}
	rule := "FREQ=WEEKLY;BYDAY=" + strings.Join(codes, ",")
	if !until.IsZero() {
		rule += ";UNTIL=" + until.UTC().Format(icsTimeLayout)
	}
	return rule
}
