package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/pkg/export"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

// ExportFormat enumerates supported plan export formats.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatICS  ExportFormat = "ics"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	ExportFormatICS:  "text/calendar",
}

var planExportHeaders = []string{"Section", "Course", "Title", "Type", "Days", "Start", "End", "Location", "Units", "Instructors"}

type planExportRow struct {
	SectionID   string `csv:"section_id"`
	CourseCode  string `csv:"course_code"`
	CourseName  string `csv:"course_name"`
	Type        string `csv:"type"`
	Days        string `csv:"days"`
	StartTime   string `csv:"start_time"`
	EndTime     string `csv:"end_time"`
	Location    string `csv:"location"`
	Units       string `csv:"units"`
	Instructors string `csv:"instructors"`
}

func (r planExportRow) values() map[string]string {
	return map[string]string{
		"Section":     r.SectionID,
		"Course":      r.CourseCode,
		"Title":       r.CourseName,
		"Type":        r.Type,
		"Days":        r.Days,
		"Start":       r.StartTime,
		"End":         r.EndTime,
		"Location":    r.Location,
		"Units":       r.Units,
		"Instructors": r.Instructors,
	}
}

type csvRenderer interface {
	Render(records interface{}) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet, title string) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, events []export.WeeklyEvent) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Location *time.Location
}

// ExportService renders a stored plan in downloadable formats.
type ExportService struct {
	plans  planReader
	csv    csvRenderer
	pdf    pdfRenderer
	xlsx   xlsxRenderer
	ics    icsRenderer
	cfg    ExportConfig
	logger *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers get the
// package defaults.
func NewExportService(plans planReader, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter("")
	}
	return &ExportService{plans: plans, csv: csv, pdf: pdf, xlsx: xlsx, ics: ics, cfg: cfg, logger: logger}
}

// ParseExportFormat validates a requested format name.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
	return format, nil
}

// Export renders the plan. term is only used by the calendar format, which
// needs it to place meetings on real dates.
func (s *ExportService) Export(ctx context.Context, userID, planID string, format ExportFormat, term string) (*dto.PlanExport, error) {
	plan, err := s.plans.GetPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}

	rows := make([]planExportRow, 0, len(plan.Courses))
	for _, entry := range plan.Courses {
		rows = append(rows, exportRow(entry))
	}

	title := plan.Title
	if title == "" {
		title = "Course Plan"
	}

	var content []byte
	switch format {
	case ExportFormatCSV:
		content, err = s.csv.Render(rows)
	case ExportFormatPDF:
		content, err = s.pdf.Render(exportDataset(rows), title, exportSubtitle(plan, term))
	case ExportFormatXLSX:
		content, err = s.xlsx.Render(exportDataset(rows), "Plan", title)
	case ExportFormatICS:
		var events []export.WeeklyEvent
		events, err = s.calendarEvents(plan, term)
		if err == nil {
			content, err = s.ics.Render(title, events)
		}
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		s.logger.Error("plan export failed", zap.String("user_id", userID), zap.String("plan_id", planID), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render plan export")
	}

	return &dto.PlanExport{
		Filename:    fmt.Sprintf("%s.%s", sanitizeFilename(title), format),
		ContentType: exportContentTypes[format],
		Content:     content,
	}, nil
}

func (s *ExportService) calendarEvents(plan *models.Plan, term string) ([]export.WeeklyEvent, error) {
	start, weeks, ok := models.TermCalendar(term, s.cfg.Location)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a 5-digit term is required for calendar export")
	}
	until := start.AddDate(0, 0, weeks*7)

	events := make([]export.WeeklyEvent, 0, len(plan.Courses))
	for _, entry := range plan.Courses {
		days := ParseMeetingDays(json.RawMessage(entry.Days))
		startMin, okStart := parseClock(entry.StartTime)
		endMin, okEnd := parseClock(entry.EndTime)
		if len(days) == 0 || !okStart || !okEnd || endMin <= startMin {
			continue
		}
		first := firstOccurrence(start, days)
		events = append(events, export.WeeklyEvent{
			UID:         fmt.Sprintf("%s-%s-%s@course-advisor", plan.PlanID, entry.SectionID, term),
			Summary:     strings.TrimSpace(entry.CourseCode + " " + entry.Type),
			Location:    entry.Location,
			Description: entry.CourseName,
			Start:       first.Add(time.Duration(startMin) * time.Minute),
			End:         first.Add(time.Duration(endMin) * time.Minute),
			Weekdays:    days,
			Until:       until,
		})
	}
	return events, nil
}

func firstOccurrence(termStart time.Time, days []time.Weekday) time.Time {
	for i := 0; i < 7; i++ {
		candidate := termStart.AddDate(0, 0, i)
		for _, day := range days {
			if candidate.Weekday() == day {
				return candidate
			}
		}
	}
	return termStart
}

func exportRow(entry models.PlanEntry) planExportRow {
	names := make([]string, 0, len(entry.Instructors))
	for _, instructor := range entry.Instructors {
		if name := instructor.FullName(); name != "" {
			names = append(names, name)
		}
	}
	return planExportRow{
		SectionID:   entry.SectionID,
		CourseCode:  entry.CourseCode,
		CourseName:  entry.CourseName,
		Type:        entry.Type,
		Days:        displayDays(entry.Days),
		StartTime:   entry.StartTime,
		EndTime:     entry.EndTime,
		Location:    entry.Location,
		Units:       fmt.Sprintf("%g", float64(entry.Units)),
		Instructors: strings.Join(names, "; "),
	}
}

func displayDays(raw []byte) string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return ""
}

func exportDataset(rows []planExportRow) export.Dataset {
	data := export.Dataset{Headers: planExportHeaders, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		data.Rows = append(data.Rows, row.values())
	}
	return data
}

func exportSubtitle(plan *models.Plan, term string) string {
	parts := []string{}
	if label := models.TermLabel(term); label != "" {
		parts = append(parts, label)
	}
	var units models.Units
	for _, entry := range plan.Courses {
		units += entry.Units
	}
	parts = append(parts, fmt.Sprintf("%d sections, %g units", len(plan.Courses), float64(units)))
	return strings.Join(parts, " | ")
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := replacer.Replace(strings.TrimSpace(raw))
	if result == "" {
		return "plan"
	}
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
