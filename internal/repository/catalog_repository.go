package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/pkg/middleware/requestid"
)

const maxCatalogBody = 8 << 20

var (
	// ErrCatalogUnavailable covers transport failures and any status >= 400.
	ErrCatalogUnavailable = errors.New("catalog request failed")
	// ErrCatalogNoContent is returned when the feed answers 204.
	ErrCatalogNoContent = errors.New("catalog returned no content")
	// ErrCatalogMalformed is returned when the feed body cannot be decoded.
	ErrCatalogMalformed = errors.New("catalog returned malformed body")
)

// UpstreamObserver records timings for calls to external services.
type UpstreamObserver interface {
	ObserveUpstreamRequest(upstream, operation string, status int, duration time.Duration)
}

// CatalogRepository reads course and search data from the external catalog feed.
// Every call is a fresh round-trip: no retries and no caching.
type CatalogRepository struct {
	baseURL  string
	client   *http.Client
	observer UpstreamObserver
}

// NewCatalogRepository constructs a catalog repository. A nil client gets a
// default one bounded by timeout.
func NewCatalogRepository(baseURL string, client *http.Client, timeout time.Duration, observer UpstreamObserver) *CatalogRepository {
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &CatalogRepository{baseURL: baseURL, client: client, observer: observer}
}

// GetCourse fetches one course for a term. code must already be normalised.
func (r *CatalogRepository) GetCourse(ctx context.Context, code, term string) (*models.Course, error) {
	params := url.Values{}
	params.Set("termCode", term)
	params.Set("courseCode", code)

	body, err := r.get(ctx, "course", "/Courses/Course", params)
	if err != nil {
		return nil, fmt.Errorf("get course %s for term %s: %w", code, term, err)
	}

	var course models.Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, fmt.Errorf("decode course %s: %w: %w", code, ErrCatalogMalformed, err)
	}
	if course.Code == "" {
		course.Code = code
	}
	course.Raw = body
	return &course, nil
}

// SearchCourses runs a basic catalog search and returns every match.
func (r *CatalogRepository) SearchCourses(ctx context.Context, query, term string) (*models.CourseSearchResult, error) {
	params := url.Values{}
	params.Set("termCode", term)
	params.Set("searchTerm", query)

	body, err := r.get(ctx, "search", "/Search/Basic", params)
	if err != nil {
		return nil, fmt.Errorf("search courses %q for term %s: %w", query, term, err)
	}

	var result models.CourseSearchResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode search results: %w: %w", ErrCatalogMalformed, err)
	}
	result.TotalMatches = len(result.Courses)
	result.Raw = body
	return &result, nil
}

func (r *CatalogRepository) get(ctx context.Context, operation, path string, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := requestid.FromContext(ctx); reqID != "" {
		req.Header.Set(requestid.Header, reqID)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		r.observe(operation, http.StatusServiceUnavailable, time.Since(start))
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()
	r.observe(operation, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode >= http.StatusBadRequest:
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	case resp.StatusCode == http.StatusNoContent:
		return nil, ErrCatalogNoContent
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrCatalogUnavailable, err)
	}
	return body, nil
}

func (r *CatalogRepository) observe(operation string, status int, duration time.Duration) {
	if r.observer != nil {
		r.observer.ObserveUpstreamRequest("catalog", operation, status, duration)
	}
}
