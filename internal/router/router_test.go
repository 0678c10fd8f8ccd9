package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/handler"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/internal/service"
	"github.com/noah-isme/course-advisor-api/pkg/config"
)

type fakeCatalog struct{}

func (fakeCatalog) GetCourseInfo(ctx context.Context, query dto.CourseLookupQuery) (*models.Course, error) {
	return &models.Course{Code: query.Code, Name: "Data Structures"}, nil
}

func (fakeCatalog) SearchCourses(ctx context.Context, query dto.CourseSearchQuery) (*models.CourseSearchResult, error) {
	return &models.CourseSearchResult{}, nil
}

type fakeMajors struct{}

func (fakeMajors) GetMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error) {
	return &models.MajorInfo{Major: major, Text: "requirements"}, nil
}

func (f fakeMajors) RefreshMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error) {
	return f.GetMajorInfo(ctx, major)
}

type fakePlans struct {
	removed string
}

func (f *fakePlans) GetPlan(ctx context.Context, userID, planID string) (*models.Plan, error) {
	return &models.Plan{UserID: userID, PlanID: planID, Courses: models.PlanEntries{}}, nil
}

func (f *fakePlans) ListPlans(ctx context.Context, userID string) ([]models.PlanSummary, error) {
	return []models.PlanSummary{}, nil
}

func (f *fakePlans) CreatePlan(ctx context.Context, userID string, req dto.CreatePlanRequest) (*models.Plan, error) {
	return &models.Plan{UserID: userID, PlanID: "p"}, nil
}

func (f *fakePlans) AddSection(ctx context.Context, req dto.AddSectionRequest) (*models.PlanEntry, error) {
	return &models.PlanEntry{SectionID: req.SectionID}, nil
}

func (f *fakePlans) RemoveSection(ctx context.Context, req dto.RemoveSectionRequest) (*service.RemoveResult, error) {
	f.removed = req.SectionID
	return &service.RemoveResult{SectionID: req.SectionID}, nil
}

func (f *fakePlans) AttachSession(ctx context.Context, userID, planID string, req dto.AttachSessionRequest) (*models.Plan, error) {
	return &models.Plan{}, nil
}

func (f *fakePlans) DetachSession(ctx context.Context, userID, planID string) error {
	return nil
}

func newTestEngine(cfg *config.Config, plans *fakePlans) http.Handler {
	metrics := service.NewMetricsService()
	return Setup(cfg, Handlers{
		Catalog: handler.NewCatalogHandler(fakeCatalog{}),
		Majors:  handler.NewMajorHandler(fakeMajors{}),
		Plans:   handler.NewPlanHandler(plans, nil, nil),
		Health:  handler.NewHealthHandler(metrics, nil, nil),
	}, metrics, nil)
}

func testConfig(env string, metrics bool) *config.Config {
	return &config.Config{Env: env, APIPrefix: "/api/v1", Metrics: config.MetricsConfig{Enabled: metrics}}
}

func serve(engine http.Handler, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestSetupRoutesToolSurface(t *testing.T) {
	plans := &fakePlans{}
	engine := newTestEngine(testConfig(config.EnvDevelopment, true), plans)

	w := serve(engine, http.MethodGet, "/api/v1/courses?term=20253&code=CSCI104", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)

	w = serve(engine, http.MethodGet, "/api/v1/majors/CSCI-BS", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = serve(engine, http.MethodPost, "/api/v1/users/u1/plans/p1/sections", `{"courseCode":"CSCI 104","sectionId":"29937","term":"20253"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodDelete, "/api/v1/users/u1/plans/p1/sections/29937", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "29937", plans.removed)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSetupMetricsEndpoint(t *testing.T) {
	engine := newTestEngine(testConfig(config.EnvDevelopment, true), &fakePlans{})
	serve(engine, http.MethodGet, "/health", "")

	w := serve(engine, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",path="/health",status="200"}`)

	disabled := newTestEngine(testConfig(config.EnvDevelopment, false), &fakePlans{})
	assert.Equal(t, http.StatusNotFound, serve(disabled, http.MethodGet, "/metrics", "").Code)
}

func TestSetupDocsHiddenInProduction(t *testing.T) {
	dev := newTestEngine(testConfig(config.EnvDevelopment, false), &fakePlans{})
	assert.Equal(t, http.StatusOK, serve(dev, http.MethodGet, "/docs/doc.json", "").Code)

	prod := newTestEngine(testConfig(config.EnvProduction, false), &fakePlans{})
	assert.Equal(t, http.StatusNotFound, serve(prod, http.MethodGet, "/docs/doc.json", "").Code)
}
