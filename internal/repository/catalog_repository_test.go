package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-advisor-api/internal/models"
	"github.com/noah-isme/course-advisor-api/pkg/middleware/requestid"
)

type observedCall struct {
	upstream  string
	operation string
	status    int
}

type observerStub struct {
	calls []observedCall
}

func (o *observerStub) ObserveUpstreamRequest(upstream, operation string, status int, duration time.Duration) {
	o.calls = append(o.calls, observedCall{upstream: upstream, operation: operation, status: status})
}

const csci104Body = `{
	"name": "Data Structures and Object Oriented Design",
	"courseUnits": [4],
	"prerequisites": "CSCI 103",
	"sections": [
		{"sisSectionId": "29937", "rnrMode": "Lecture",
		 "schedule": [{"days": "MTWHF", "startTime": "10:00", "endTime": "10:50", "location": "THH101"}],
		 "instructors": [{"firstName": "Mark", "lastName": "Redekopp"}]}
	]
}`

func TestCatalogRepositoryGetCourse(t *testing.T) {
	var gotPath, gotTerm, gotCode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTerm = r.URL.Query().Get("termCode")
		gotCode = r.URL.Query().Get("courseCode")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(csci104Body))
	}))
	defer srv.Close()

	observer := &observerStub{}
	repo := NewCatalogRepository(srv.URL, srv.Client(), 0, observer)

	course, err := repo.GetCourse(context.Background(), "CSCI104", "20253")
	require.NoError(t, err)
	assert.Equal(t, "/Courses/Course", gotPath)
	assert.Equal(t, "20253", gotTerm)
	assert.Equal(t, "CSCI104", gotCode)
	assert.Equal(t, "CSCI104", course.Code)
	assert.Equal(t, "Data Structures and Object Oriented Design", course.Name)
	assert.Equal(t, models.Units(4), course.Units())
	require.Len(t, course.Sections, 1)
	assert.Equal(t, "29937", course.Sections[0].SisSectionID)
	assert.Contains(t, string(course.Raw), "prerequisites")
	require.Len(t, observer.calls, 1)
	assert.Equal(t, observedCall{upstream: "catalog", operation: "course", status: http.StatusOK}, observer.calls[0])
}

func TestCatalogRepositoryClassifiesStatuses(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "no content", status: http.StatusNoContent, want: ErrCatalogNoContent},
		{name: "not found", status: http.StatusNotFound, want: ErrCatalogUnavailable},
		{name: "server error", status: http.StatusBadGateway, want: ErrCatalogUnavailable},
		{name: "malformed", status: http.StatusOK, body: `{"sections": "nope"}`, want: ErrCatalogMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				if tc.body != "" {
					_, _ = w.Write([]byte(tc.body))
				}
			}))
			defer srv.Close()

			repo := NewCatalogRepository(srv.URL, srv.Client(), 0, nil)
			course, err := repo.GetCourse(context.Background(), "CSCI104", "20253")
			require.Error(t, err)
			assert.Nil(t, course)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestCatalogRepositoryTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	observer := &observerStub{}
	repo := NewCatalogRepository(url, nil, time.Second, observer)
	_, err := repo.GetCourse(context.Background(), "CSCI104", "20253")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCatalogUnavailable))
	require.Len(t, observer.calls, 1)
	assert.Equal(t, http.StatusServiceUnavailable, observer.calls[0].status)
}

func TestCatalogRepositorySearchCourses(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/Search/Basic", r.URL.Path)
		gotQuery = r.URL.Query().Get("searchTerm")
		_, _ = w.Write([]byte(`{"courses":[{"code":"CSCI104"},{"code":"CSCI103"}]}`))
	}))
	defer srv.Close()

	repo := NewCatalogRepository(srv.URL, srv.Client(), 0, nil)
	result, err := repo.SearchCourses(context.Background(), "data structures", "20253")
	require.NoError(t, err)
	assert.Equal(t, "data structures", gotQuery)
	assert.Len(t, result.Courses, 2)
	assert.Equal(t, 2, result.TotalMatches)
	assert.JSONEq(t, `{"courses":[{"code":"CSCI104"},{"code":"CSCI103"}]}`, string(result.Raw))
}

func TestCatalogRepositoryForwardsRequestID(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(requestid.Header)
		_, _ = w.Write([]byte(`{"courses":[]}`))
	}))
	defer srv.Close()

	repo := NewCatalogRepository(srv.URL, srv.Client(), 0, nil)
	ctx := requestid.WithValue(context.Background(), "req-42")

	_, err := repo.SearchCourses(ctx, "data", "20253")
	require.NoError(t, err)
	assert.Equal(t, "req-42", gotID)
}
