package service

import (
	"github.com/noah-isme/course-advisor-api/internal/models"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

// ResolveSection picks the first section of course whose id matches sectionID
// and extracts the fields a plan entry needs. Both the requested id and the
// feed ids are normalized before comparing. Only the first schedule block is
// used; a section without one cannot be placed on a plan.
func ResolveSection(course *models.Course, sectionID string) (*models.ResolvedSection, error) {
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrSectionNotFound, "course has no sections")
	}
	want := NormalizeSectionID(sectionID)
	for i := range course.Sections {
		section := &course.Sections[i]
		if NormalizeSectionID(section.SisSectionID) != want {
			continue
		}
		if len(section.Schedule) == 0 {
			return nil, appErrors.Clone(appErrors.ErrSectionNotFound, "section has no scheduled meetings")
		}
		instructors := section.Instructors
		if instructors == nil {
			instructors = []models.Instructor{}
		}
		return &models.ResolvedSection{
			SectionID:   want,
			CourseName:  course.Name,
			Type:        section.RnrMode,
			Meeting:     section.Schedule[0],
			Units:       course.Units(),
			Instructors: instructors,
		}, nil
	}
	return nil, appErrors.Clone(appErrors.ErrSectionNotFound, "section not offered for this course and term")
}

// NewPlanEntry builds the stored snapshot for a resolved section. courseCode
// is kept exactly as the caller supplied it.
func NewPlanEntry(courseCode string, resolved *models.ResolvedSection) models.PlanEntry {
	return models.PlanEntry{
		SectionID:   resolved.SectionID,
		CourseCode:  courseCode,
		CourseName:  resolved.CourseName,
		Type:        resolved.Type,
		Days:        resolved.Meeting.Days,
		StartTime:   resolved.Meeting.StartTime,
		EndTime:     resolved.Meeting.EndTime,
		Location:    resolved.Meeting.Location,
		Units:       resolved.Units,
		Instructors: resolved.Instructors,
	}
}
