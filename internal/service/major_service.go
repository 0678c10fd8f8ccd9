package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/pkg/cache"
	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

const (
	msgMajorUnknown = "I do not have any information about your major on file."

	programTextStart = "Tweet this Page (opens a new window)"
	programTextEnd   = "Back to Top"
)

type majorCatalogue interface {
	ProgramID(major string) (int, bool)
	FetchProgramText(ctx context.Context, programID int) (string, error)
}

type majorCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// MajorService serves program requirement text for a major.
type MajorService struct {
	catalogue majorCatalogue
	cache     majorCache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewMajorService constructs a MajorService. cache may be nil.
func NewMajorService(catalogue majorCatalogue, cache majorCache, ttl time.Duration, logger *zap.Logger) *MajorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MajorService{catalogue: catalogue, cache: cache, ttl: ttl, logger: logger}
}

// GetMajorInfo returns the requirements text for major.
func (s *MajorService) GetMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error) {
	major = normalizeMajor(major)
	programID, ok := s.catalogue.ProgramID(major)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, msgMajorUnknown)
	}

	key := cache.Key("major", major)
	if s.cache != nil {
		var cached models.MajorInfo
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	raw, err := s.catalogue.FetchProgramText(ctx, programID)
	if err != nil {
		s.logger.Warn("program fetch failed", zap.String("major", major), zap.Int("program_id", programID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, msgMajorUnknown)
	}

	text := ProgramRequirements(raw)
	if text == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, msgMajorUnknown)
	}

	info := &models.MajorInfo{Major: major, ProgramID: programID, Text: text}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, info, s.ttl)
	}
	return info, nil
}

// RefreshMajorInfo drops any cached copy of major and reads the catalogue again.
func (s *MajorService) RefreshMajorInfo(ctx context.Context, major string) (*models.MajorInfo, error) {
	major = normalizeMajor(major)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cache.Key("major", major)); err != nil {
			s.logger.Warn("major cache invalidate failed", zap.String("major", major), zap.Error(err))
		}
	}
	return s.GetMajorInfo(ctx, major)
}

func normalizeMajor(major string) string {
	return strings.ToUpper(strings.TrimSpace(major))
}

// ProgramRequirements trims a catalogue page's text down to the program body:
// newlines are dropped and only the text after the share links and before the
// last "Back to Top" link is kept. Missing markers leave that side untouched.
func ProgramRequirements(pageText string) string {
	text := strings.ReplaceAll(pageText, "\n", "")
	if idx := strings.Index(text, programTextStart); idx >= 0 {
		text = text[idx+len(programTextStart):]
	}
	if idx := strings.LastIndex(text, programTextEnd); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
