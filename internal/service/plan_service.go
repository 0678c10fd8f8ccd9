package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

const (
	msgPlanNotFound    = "User or plan does not exist!"
	msgSectionNotFound = "I was unable to find the section you were looking for. Double-check if the section or course exists or that the catalog is online."
	msgAddFailed       = "The section was found but the plan could not be updated."
	msgRemoveFailed    = "Failed to delete section"
)

type planRepository interface {
	Get(ctx context.Context, userID, planID string) (*models.Plan, error)
	List(ctx context.Context, userID string) ([]models.PlanSummary, error)
	Create(ctx context.Context, plan *models.Plan) error
	AppendEntry(ctx context.Context, userID, planID string, entry models.PlanEntry) error
	RemoveEntry(ctx context.Context, userID, planID, sectionID string) (bool, error)
	SetSession(ctx context.Context, userID, planID string, sessionID *string) error
}

type courseFetcher interface {
	GetCourse(ctx context.Context, code, term string) (*models.Course, error)
}

type planMutationRecorder interface {
	RecordPlanMutation(operation, outcome string)
}

// RemoveResult reports the outcome of a remove request. Removed is false when
// the plan did not hold the section.
type RemoveResult struct {
	SectionID string `json:"sectionId"`
	Removed   bool   `json:"removed"`
}

// PlanService owns every read and mutation of course plans.
type PlanService struct {
	repo      planRepository
	catalog   courseFetcher
	metrics   planMutationRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPlanService constructs a PlanService.
func NewPlanService(repo planRepository, catalog courseFetcher, metrics planMutationRecorder, validate *validator.Validate, logger *zap.Logger) *PlanService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{repo: repo, catalog: catalog, metrics: metrics, validator: validate, logger: logger}
}

// GetPlan returns the stored plan document.
func (s *PlanService) GetPlan(ctx context.Context, userID, planID string) (*models.Plan, error) {
	plan, err := s.repo.Get(ctx, userID, planID)
	if err != nil {
		return nil, planReadError(err)
	}
	return plan, nil
}

// ListPlans returns the user's plans, newest first.
func (s *PlanService) ListPlans(ctx context.Context, userID string) ([]models.PlanSummary, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	plans, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list plans")
	}
	if plans == nil {
		plans = []models.PlanSummary{}
	}
	return plans, nil
}

// CreatePlan starts an empty plan for userID.
func (s *PlanService) CreatePlan(ctx context.Context, userID string, req dto.CreatePlanRequest) (*models.Plan, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid plan payload")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Untitled Plan"
	}
	plan := &models.Plan{
		UserID:  userID,
		PlanID:  uuid.NewString(),
		Title:   title,
		Courses: models.PlanEntries{},
	}
	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create plan")
	}
	s.logger.Info("plan created", zap.String("user_id", userID), zap.String("plan_id", plan.PlanID))
	return plan, nil
}

// AddSection validates a section against the catalog and appends its snapshot
// to the plan. The catalog read and the store write are not atomic; the
// section may change upstream in between.
func (s *PlanService) AddSection(ctx context.Context, req dto.AddSectionRequest) (*models.PlanEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		s.record("add", "invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course code, section id and term are required")
	}
	code := NormalizeCourseCode(req.CourseCode)
	sectionID := NormalizeSectionID(req.SectionID)
	logger := s.logger.With(
		zap.String("user_id", req.UserID),
		zap.String("plan_id", req.PlanID),
		zap.String("course_code", code),
		zap.String("section_id", sectionID),
		zap.String("term", req.Term),
	)

	course, err := s.catalog.GetCourse(ctx, code, req.Term)
	if err != nil {
		logger.Warn("catalog lookup for add failed", zap.Error(err))
		s.record("add", "section_not_found")
		return nil, appErrors.Wrap(err, appErrors.ErrSectionNotFound.Code, appErrors.ErrSectionNotFound.Status, msgSectionNotFound)
	}

	resolved, err := ResolveSection(course, sectionID)
	if err != nil {
		logger.Info("section not offered", zap.Error(err))
		s.record("add", "section_not_found")
		return nil, appErrors.Wrap(err, appErrors.ErrSectionNotFound.Code, appErrors.ErrSectionNotFound.Status, msgSectionNotFound)
	}

	entry := NewPlanEntry(req.CourseCode, resolved)
	if err := s.repo.AppendEntry(ctx, req.UserID, req.PlanID, entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.record("add", "plan_not_found")
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgPlanNotFound)
		}
		logger.Error("append plan entry failed", zap.Error(err))
		s.record("add", "write_failure")
		return nil, appErrors.Wrap(err, appErrors.ErrWriteFailure.Code, appErrors.ErrWriteFailure.Status, msgAddFailed)
	}

	logger.Info("section added to plan")
	s.record("add", "ok")
	return &entry, nil
}

// RemoveSection drops every entry carrying the section id. Removing a section
// the plan does not hold succeeds without touching the plan.
func (s *PlanService) RemoveSection(ctx context.Context, req dto.RemoveSectionRequest) (*RemoveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.record("remove", "invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "section id is required")
	}
	sectionID := NormalizeSectionID(req.SectionID)
	logger := s.logger.With(
		zap.String("user_id", req.UserID),
		zap.String("plan_id", req.PlanID),
		zap.String("section_id", sectionID),
	)

	if _, err := s.repo.Get(ctx, req.UserID, req.PlanID); err != nil {
		s.record("remove", "plan_not_found")
		return nil, planReadError(err)
	}

	removed, err := s.repo.RemoveEntry(ctx, req.UserID, req.PlanID, sectionID)
	if err != nil {
		logger.Error("remove plan entry failed", zap.Error(err))
		s.record("remove", "write_failure")
		return nil, appErrors.Wrap(err, appErrors.ErrWriteFailure.Code, appErrors.ErrWriteFailure.Status, msgRemoveFailed)
	}

	if removed {
		logger.Info("section removed from plan")
		s.record("remove", "ok")
	} else {
		logger.Info("section not in plan, nothing removed")
		s.record("remove", "noop")
	}
	return &RemoveResult{SectionID: sectionID, Removed: removed}, nil
}

// AttachSession records the agent session working on a plan.
func (s *PlanService) AttachSession(ctx context.Context, userID, planID string, req dto.AttachSessionRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "session id is required")
	}
	sessionID := strings.TrimSpace(req.SessionID)
	if err := s.repo.SetSession(ctx, userID, planID, &sessionID); err != nil {
		return nil, planWriteError(err, "failed to attach session")
	}
	return s.GetPlan(ctx, userID, planID)
}

// DetachSession clears the session bound to a plan.
func (s *PlanService) DetachSession(ctx context.Context, userID, planID string) error {
	if err := s.repo.SetSession(ctx, userID, planID, nil); err != nil {
		return planWriteError(err, "failed to detach session")
	}
	return nil
}

func (s *PlanService) record(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordPlanMutation(operation, outcome)
	}
}

func planReadError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgPlanNotFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get course plan")
}

func planWriteError(err error, message string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgPlanNotFound)
	}
	return appErrors.Wrap(err, appErrors.ErrWriteFailure.Code, appErrors.ErrWriteFailure.Status, message)
}
