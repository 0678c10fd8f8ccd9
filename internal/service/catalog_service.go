package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/internal/dto"
	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/internal/repository"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

// SearchResultLimit caps the number of courses returned by a search.
const SearchResultLimit = 10

const (
	msgCourseUnavailable = "I was unable to get the course you were looking for. Double-check if the course exists or that the catalog is online."
	msgCourseNoContent   = "There doesn't seem to be any information on this course. Double-check the course and/or term."
	msgSearchUnavailable = "I was unable to find anything for what you were looking for. Double-check your query or that the catalog is online."
	msgSearchNoResults   = "Your query returned no results."
)

type catalogGateway interface {
	GetCourse(ctx context.Context, code, term string) (*models.Course, error)
	SearchCourses(ctx context.Context, query, term string) (*models.CourseSearchResult, error)
}

// CatalogService answers read-only course lookups against the catalog feed.
type CatalogService struct {
	gateway   catalogGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(gateway catalogGateway, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{gateway: gateway, validator: validate, logger: logger}
}

// GetCourseInfo normalizes the course code and fetches the course for term.
func (s *CatalogService) GetCourseInfo(ctx context.Context, query dto.CourseLookupQuery) (*models.Course, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course code and term are required")
	}
	code := NormalizeCourseCode(query.Code)
	course, err := s.gateway.GetCourse(ctx, code, query.Term)
	if err != nil {
		s.logger.Warn("course lookup failed", zap.String("course_code", code), zap.String("term", query.Term), zap.Error(err))
		return nil, courseLookupError(err)
	}
	return course, nil
}

// SearchCourses runs a catalog search and keeps the first SearchResultLimit matches.
func (s *CatalogService) SearchCourses(ctx context.Context, query dto.CourseSearchQuery) (*models.CourseSearchResult, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "search query and term are required")
	}
	result, err := s.gateway.SearchCourses(ctx, query.Query, query.Term)
	if err != nil {
		if errors.Is(err, repository.ErrCatalogNoContent) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgSearchNoResults)
		}
		s.logger.Warn("course search failed", zap.String("query", query.Query), zap.String("term", query.Term), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgSearchUnavailable)
	}
	if len(result.Courses) > SearchResultLimit {
		result.Courses = result.Courses[:SearchResultLimit]
	}
	if len(result.Courses) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, msgSearchNoResults)
	}
	return result, nil
}

func courseLookupError(err error) error {
	if errors.Is(err, repository.ErrCatalogNoContent) {
		return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgCourseNoContent)
	}
	return appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgCourseUnavailable)
}
