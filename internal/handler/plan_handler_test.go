package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/internal/service"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
	"github.com/noah-isme/course-advisor-api/pkg/response"
)

type planServiceMock struct {
	plan       *models.Plan
	planErr    error
	summaries  []models.PlanSummary
	addErr     error
	removeResp *service.RemoveResult
	removeErr  error
	detachErr  error
	lastAdd    dto.AddSectionRequest
	lastRemove dto.RemoveSectionRequest
	lastCreate dto.CreatePlanRequest
	addCalled  bool
}

func (m *planServiceMock) GetPlan(ctx context.Context, userID, planID string) (*models.Plan, error) {
	return m.plan, m.planErr
}

func (m *planServiceMock) ListPlans(ctx context.Context, userID string) ([]models.PlanSummary, error) {
	return m.summaries, nil
}

func (m *planServiceMock) CreatePlan(ctx context.Context, userID string, req dto.CreatePlanRequest) (*models.Plan, error) {
	m.lastCreate = req
	return &models.Plan{UserID: userID, PlanID: "plan-new", Title: req.Title, Courses: models.PlanEntries{}}, nil
}

func (m *planServiceMock) AddSection(ctx context.Context, req dto.AddSectionRequest) (*models.PlanEntry, error) {
	m.addCalled = true
	m.lastAdd = req
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &models.PlanEntry{SectionID: req.SectionID, CourseCode: req.CourseCode}, nil
}

func (m *planServiceMock) RemoveSection(ctx context.Context, req dto.RemoveSectionRequest) (*service.RemoveResult, error) {
	m.lastRemove = req
	return m.removeResp, m.removeErr
}

func (m *planServiceMock) AttachSession(ctx context.Context, userID, planID string, req dto.AttachSessionRequest) (*models.Plan, error) {
	sessionID := req.SessionID
	return &models.Plan{UserID: userID, PlanID: planID, SessionID: &sessionID}, nil
}

func (m *planServiceMock) DetachSession(ctx context.Context, userID, planID string) error {
	return m.detachErr
}

type conflictServiceMock struct {
	conflicts []models.PlanConflict
}

func (m *conflictServiceMock) Conflicts(ctx context.Context, userID, planID string) ([]models.PlanConflict, error) {
	return m.conflicts, nil
}

type exportServiceMock struct {
	doc        *dto.PlanExport
	lastFormat service.ExportFormat
	lastTerm   string
}

func (m *exportServiceMock) Export(ctx context.Context, userID, planID string, format service.ExportFormat, term string) (*dto.PlanExport, error) {
	m.lastFormat = format
	m.lastTerm = term
	return m.doc, nil
}

func planContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Params = gin.Params{{Key: "userID", Value: "user-1"}, {Key: "planID", Value: "plan-1"}}
	return c, w
}

func decodeTool(t *testing.T, w *httptest.ResponseRecorder) response.ToolResult {
	t.Helper()
	var result response.ToolResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	return result
}

func TestPlanHandlerGetPlan(t *testing.T) {
	svc := &planServiceMock{plan: &models.Plan{UserID: "user-1", PlanID: "plan-1", Title: "Fall 2025", Courses: models.PlanEntries{}}}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodGet, "/users/user-1/plans/plan-1", nil)
	handler.GetPlan(c)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeTool(t, w)
	assert.Equal(t, response.StatusSuccess, result.Status)
	assert.Contains(t, w.Body.String(), `"planId":"plan-1"`)
}

func TestPlanHandlerGetPlanMissing(t *testing.T) {
	svc := &planServiceMock{planErr: appErrors.Clone(appErrors.ErrNotFound, "User or plan does not exist!")}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodGet, "/users/user-1/plans/plan-1", nil)
	handler.GetPlan(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	result := decodeTool(t, w)
	assert.Equal(t, response.StatusError, result.Status)
	assert.Equal(t, "User or plan does not exist!", result.ErrorMessage)
}

func TestPlanHandlerAddSection(t *testing.T) {
	svc := &planServiceMock{}
	handler := NewPlanHandler(svc, nil, nil)

	body := []byte(`{"courseCode":"CSCI 104","sectionId":"29937","term":"20253"}`)
	c, w := planContext(http.MethodPost, "/users/user-1/plans/plan-1/sections", body)
	handler.AddSection(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, response.StatusSuccess, decodeTool(t, w).Status)
	assert.Equal(t, dto.AddSectionRequest{UserID: "user-1", PlanID: "plan-1", CourseCode: "CSCI 104", SectionID: "29937", Term: "20253"}, svc.lastAdd)
}

func TestPlanHandlerAddSectionInvalidBody(t *testing.T) {
	svc := &planServiceMock{}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodPost, "/users/user-1/plans/plan-1/sections", []byte(`{"courseCode":`))
	handler.AddSection(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.StatusError, decodeTool(t, w).Status)
	assert.False(t, svc.addCalled)
}

func TestPlanHandlerAddSectionNotOffered(t *testing.T) {
	svc := &planServiceMock{addErr: appErrors.Clone(appErrors.ErrSectionNotFound, "I was unable to find the section you were looking for.")}
	handler := NewPlanHandler(svc, nil, nil)

	body := []byte(`{"courseCode":"CSCI 104","sectionId":"00000","term":"20253"}`)
	c, w := planContext(http.MethodPost, "/users/user-1/plans/plan-1/sections", body)
	handler.AddSection(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	result := decodeTool(t, w)
	assert.Equal(t, response.StatusError, result.Status)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestPlanHandlerRemoveSection(t *testing.T) {
	svc := &planServiceMock{removeResp: &service.RemoveResult{SectionID: "29937", Removed: true}}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodDelete, "/users/user-1/plans/plan-1/sections/29937", nil)
	c.Params = append(c.Params, gin.Param{Key: "sectionID", Value: "29937"})
	handler.RemoveSection(c)

	require.Equal(t, http.StatusOK, w.Code)
	result := decodeTool(t, w)
	assert.Equal(t, response.StatusSuccess, result.Status)
	assert.Equal(t, "29937", result.SectionID)
	assert.Equal(t, "29937", svc.lastRemove.SectionID)
}

func TestPlanHandlerRemoveSectionWriteFailure(t *testing.T) {
	svc := &planServiceMock{removeErr: appErrors.Clone(appErrors.ErrWriteFailure, "Failed to delete section")}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodDelete, "/users/user-1/plans/plan-1/sections/29937", nil)
	c.Params = append(c.Params, gin.Param{Key: "sectionID", Value: "29937"})
	handler.RemoveSection(c)

	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Failed to delete section", decodeTool(t, w).ErrorMessage)
}

func TestPlanHandlerCreateAndList(t *testing.T) {
	svc := &planServiceMock{summaries: []models.PlanSummary{{PlanID: "plan-1", Title: "Fall 2025", CourseCount: 2}}}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodPost, "/users/user-1/plans", []byte(`{"title":"Spring 2026"}`))
	handler.CreatePlan(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Spring 2026", svc.lastCreate.Title)

	c, w = planContext(http.MethodPost, "/users/user-1/plans", nil)
	handler.CreatePlan(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, svc.lastCreate.Title)

	c, w = planContext(http.MethodGet, "/users/user-1/plans", nil)
	handler.ListPlans(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []models.PlanSummary   `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, 2, envelope.Data[0].CourseCount)
	assert.EqualValues(t, 1, envelope.Meta["total"])
}

func TestPlanHandlerSession(t *testing.T) {
	svc := &planServiceMock{}
	handler := NewPlanHandler(svc, nil, nil)

	c, w := planContext(http.MethodPut, "/users/user-1/plans/plan-1/session", []byte(`{"sessionId":"sess-9"}`))
	handler.AttachSession(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sessionId":"sess-9"`)

	svc.detachErr = appErrors.Clone(appErrors.ErrNotFound, "User or plan does not exist!")
	c, w = planContext(http.MethodDelete, "/users/user-1/plans/plan-1/session", nil)
	handler.DetachSession(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	svc.detachErr = nil
	c, w = planContext(http.MethodDelete, "/users/user-1/plans/plan-1/session", nil)
	handler.DetachSession(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
}

func TestPlanHandlerConflicts(t *testing.T) {
	conflicts := &conflictServiceMock{conflicts: []models.PlanConflict{{SectionID: "1", OtherSectionID: "2", Day: "Monday", Start: "10:00", End: "10:50"}}}
	handler := NewPlanHandler(&planServiceMock{}, conflicts, nil)

	c, w := planContext(http.MethodGet, "/users/user-1/plans/plan-1/conflicts", nil)
	handler.Conflicts(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"otherSectionId":"2"`)
}

func TestPlanHandlerExport(t *testing.T) {
	exports := &exportServiceMock{doc: &dto.PlanExport{Filename: "fall-2025.ics", ContentType: "text/calendar", Content: []byte("BEGIN:VCALENDAR")}}
	handler := NewPlanHandler(&planServiceMock{}, nil, exports)

	c, w := planContext(http.MethodGet, "/users/user-1/plans/plan-1/export?format=ics&term=20253", nil)
	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.ExportFormatICS, exports.lastFormat)
	assert.Equal(t, "20253", exports.lastTerm)
	assert.Equal(t, "text/calendar", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fall-2025.ics"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "BEGIN:VCALENDAR", w.Body.String())
}

func TestPlanHandlerExportUnknownFormat(t *testing.T) {
	exports := &exportServiceMock{}
	handler := NewPlanHandler(&planServiceMock{}, nil, exports)

	c, w := planContext(http.MethodGet, "/users/user-1/plans/plan-1/export?format=docx", nil)
	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, exports.lastFormat)
}
