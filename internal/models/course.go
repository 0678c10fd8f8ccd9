package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx/types"
)

// Course is the subset of a catalog feed course record the planner relies on.
// Raw keeps the full upstream payload for read-only lookups.
type Course struct {
	Code        string          `json:"code,omitempty"`
	Name        string          `json:"name"`
	CourseUnits []Units         `json:"courseUnits"`
	Sections    []Section       `json:"sections"`
	Raw         json.RawMessage `json:"-"`
}

// Units returns the first listed unit value, or zero when the feed omits units.
func (c *Course) Units() Units {
	if c == nil || len(c.CourseUnits) == 0 {
		return 0
	}
	return c.CourseUnits[0]
}

// Section is one schedulable offering of a course.
type Section struct {
	SisSectionID string       `json:"sisSectionId"`
	RnrMode      string       `json:"rnrMode"`
	Schedule     []Meeting    `json:"schedule"`
	Instructors  []Instructor `json:"instructors"`
}

// Meeting is a single meeting block. Days are kept exactly as the feed sent
// them, either a compact string ("MTWHF") or a list of day names.
type Meeting struct {
	Days      types.JSONText `json:"days"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Location  string         `json:"location"`
}

// Instructor names a section instructor.
type Instructor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName renders "Last, First".
func (i Instructor) FullName() string {
	switch {
	case i.LastName == "":
		return i.FirstName
	case i.FirstName == "":
		return i.LastName
	default:
		return i.LastName + ", " + i.FirstName
	}
}

// Units is a course unit count. The feed is not consistent about sending
// numbers or numeric strings, so both decode.
type Units float64

// UnmarshalJSON accepts 4, 4.0, "4" and "4.0".
func (u *Units) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*u = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*u = 0
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid units %s: %w", data, err)
	}
	*u = Units(v)
	return nil
}

// CourseSearchResult holds the matching catalog courses. Raw keeps the
// upstream search body so fields other than courses reach the caller as sent.
type CourseSearchResult struct {
	Courses      []json.RawMessage `json:"courses"`
	TotalMatches int               `json:"totalMatches"`
	Raw          json.RawMessage   `json:"-"`
}

// MarshalJSON renders the upstream body with its courses list replaced by
// Courses. Without a usable upstream object it falls back to the struct fields.
func (r CourseSearchResult) MarshalJSON() ([]byte, error) {
	type plain CourseSearchResult
	var body map[string]json.RawMessage
	if len(r.Raw) == 0 || json.Unmarshal(r.Raw, &body) != nil || body == nil {
		return json.Marshal(plain(r))
	}
	courses := r.Courses
	if courses == nil {
		courses = []json.RawMessage{}
	}
	encoded, err := json.Marshal(courses)
	if err != nil {
		return nil, err
	}
	body["courses"] = encoded
	return json.Marshal(body)
}

// ResolvedSection carries the section fields needed to materialise a plan entry.
type ResolvedSection struct {
	SectionID   string
	CourseName  string
	Type        string
	Meeting     Meeting
	Units       Units
	Instructors []Instructor
}
