package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// PlanEntry is the snapshot of a resolved section stored in a plan at add time.
// It is not re-validated against the catalog afterwards.
type PlanEntry struct {
	SectionID   string         `json:"sectionId"`
	CourseCode  string         `json:"courseCode"`
	CourseName  string         `json:"courseName"`
	Type        string         `json:"type"`
	Days        types.JSONText `json:"days"`
	StartTime   string         `json:"startTime"`
	EndTime     string         `json:"endTime"`
	Location    string         `json:"location"`
	Units       Units          `json:"units"`
	Instructors []Instructor   `json:"instructors"`
}

// PlanEntries is the JSONB courses column of a plan document.
type PlanEntries []PlanEntry

// Scan implements sql.Scanner. A NULL column scans as an empty list.
func (p *PlanEntries) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = PlanEntries{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan plan entries: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*p = PlanEntries{}
		return nil
	}
	var entries []PlanEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("scan plan entries: %w", err)
	}
	if entries == nil {
		entries = []PlanEntry{}
	}
	*p = entries
	return nil
}

// Value implements driver.Valuer.
func (p PlanEntries) Value() (driver.Value, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]PlanEntry(p))
}

// Plan is a user's named collection of selected sections.
type Plan struct {
	UserID    string      `db:"user_id" json:"userId"`
	PlanID    string      `db:"plan_id" json:"planId"`
	Title     string      `db:"title" json:"title"`
	Courses   PlanEntries `db:"courses" json:"courses"`
	SessionID *string     `db:"session_id" json:"sessionId,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
	Modified  time.Time   `db:"modified" json:"modified"`
}

// HasSection reports whether any entry carries sectionID.
func (p *Plan) HasSection(sectionID string) bool {
	if p == nil {
		return false
	}
	for _, entry := range p.Courses {
		if entry.SectionID == sectionID {
			return true
		}
	}
	return false
}

// PlanSummary is the dashboard listing view of a plan.
type PlanSummary struct {
	PlanID      string    `db:"plan_id" json:"planId"`
	Title       string    `db:"title" json:"title"`
	CourseCount int       `db:"course_count" json:"courseCount"`
	Modified    time.Time `db:"modified" json:"modified"`
}

// PlanConflict reports two plan entries that meet at the same time.
type PlanConflict struct {
	SectionID       string `json:"sectionId"`
	CourseCode      string `json:"courseCode"`
	OtherSectionID  string `json:"otherSectionId"`
	OtherCourseCode string `json:"otherCourseCode"`
	Day             string `json:"day"`
	Start           string `json:"start"`
	End             string `json:"end"`
}
