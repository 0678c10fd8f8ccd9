package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/noah-isme/course-advisor-api/internal/models"
)

var weekdayOrder = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

var dayLetters = map[rune]time.Weekday{
	'M': time.Monday,
	'T': time.Tuesday,
	'W': time.Wednesday,
	'H': time.Thursday,
	'R': time.Thursday,
	'F': time.Friday,
	'S': time.Saturday,
	'U': time.Sunday,
}

var dayNames = map[string]time.Weekday{
	"MON": time.Monday, "MONDAY": time.Monday,
	"TUE": time.Tuesday, "TUES": time.Tuesday, "TUESDAY": time.Tuesday,
	"WED": time.Wednesday, "WEDNESDAY": time.Wednesday,
	"THU": time.Thursday, "THUR": time.Thursday, "THURS": time.Thursday, "THURSDAY": time.Thursday,
	"FRI": time.Friday, "FRIDAY": time.Friday,
	"SAT": time.Saturday, "SATURDAY": time.Saturday,
	"SUN": time.Sunday, "SUNDAY": time.Sunday,
}

var clockLayouts = []string{"15:04", "15:04:05", "3:04pm", "3:04 pm", "3:04PM", "3:04 PM"}

// ParseMeetingDays decodes a stored days value. It accepts a compact letter
// string ("MTWHF", H for Thursday, so "TH" is Tuesday and Thursday), a
// delimited name list ("Tue, Thu") or a JSON array of names. Unknown forms
// such as "TBA" yield nil.
func ParseMeetingDays(raw json.RawMessage) []time.Weekday {
	if len(raw) == 0 {
		return nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil
		}
		names = splitDayNames(single)
	}

	seen := map[time.Weekday]bool{}
	for _, name := range names {
		key := strings.ToUpper(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if day, ok := dayNames[key]; ok {
			seen[day] = true
			continue
		}
		for _, letter := range key {
			day, ok := dayLetters[letter]
			if !ok {
				return nil
			}
			seen[day] = true
		}
	}

	days := make([]time.Weekday, 0, len(seen))
	for _, day := range weekdayOrder {
		if seen[day] {
			days = append(days, day)
		}
	}
	return days
}

func splitDayNames(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '/' || r == ';'
	})
}

// parseClock returns minutes since midnight.
func parseClock(value string) (int, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Hour()*60 + t.Minute(), true
		}
	}
	return 0, false
}

type meetingSlot struct {
	entry      models.PlanEntry
	days       []time.Weekday
	start, end int
}

// DetectConflicts reports every pair of entries that meet on a shared day with
// overlapping [start, end) times. Entries without a parseable day or time are
// ignored. Pairs come back ordered by day, then by start time.
func DetectConflicts(entries []models.PlanEntry) []models.PlanConflict {
	slots := make([]meetingSlot, 0, len(entries))
	for _, entry := range entries {
		days := ParseMeetingDays(json.RawMessage(entry.Days))
		start, okStart := parseClock(entry.StartTime)
		end, okEnd := parseClock(entry.EndTime)
		if len(days) == 0 || !okStart || !okEnd || end <= start {
			continue
		}
		slots = append(slots, meetingSlot{entry: entry, days: days, start: start, end: end})
	}

	type found struct {
		conflict models.PlanConflict
		day      time.Weekday
		start    int
	}
	var conflicts []found
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			a, b := slots[i], slots[j]
			if a.entry.SectionID == b.entry.SectionID {
				continue
			}
			if a.start >= b.end || b.start >= a.end {
				continue
			}
			for _, day := range sharedDays(a.days, b.days) {
				start, end := max(a.start, b.start), min(a.end, b.end)
				conflicts = append(conflicts, found{
					day:   day,
					start: start,
					conflict: models.PlanConflict{
						SectionID:       a.entry.SectionID,
						CourseCode:      a.entry.CourseCode,
						OtherSectionID:  b.entry.SectionID,
						OtherCourseCode: b.entry.CourseCode,
						Day:             day.String(),
						Start:           formatClock(start),
						End:             formatClock(end),
					},
				})
			}
		}
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		di, dj := weekdayIndex(conflicts[i].day), weekdayIndex(conflicts[j].day)
		if di != dj {
			return di < dj
		}
		return conflicts[i].start < conflicts[j].start
	})

	result := make([]models.PlanConflict, len(conflicts))
	for i, c := range conflicts {
		result[i] = c.conflict
	}
	return result
}

func sharedDays(a, b []time.Weekday) []time.Weekday {
	var shared []time.Weekday
	for _, x := range a {
		for _, y := range b {
			if x == y {
				shared = append(shared, x)
			}
		}
	}
	return shared
}

func weekdayIndex(day time.Weekday) int {
	for i, d := range weekdayOrder {
		if d == day {
			return i
		}
	}
	return len(weekdayOrder)
}

func formatClock(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}

// ConflictService reports time clashes inside a stored plan. It never changes
// the plan.
type ConflictService struct {
	plans planReader
}

type planReader interface {
	GetPlan(ctx context.Context, userID, planID string) (*models.Plan, error)
}

// NewConflictService constructs a ConflictService.
func NewConflictService(plans planReader) *ConflictService {
	return &ConflictService{plans: plans}
}

// Conflicts loads the plan and returns its overlapping entries.
func (s *ConflictService) Conflicts(ctx context.Context, userID, planID string) ([]models.PlanConflict, error) {
	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	return DetectConflicts(plan.Courses), nil
}
