package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMajorRepositoryProgramTable(t *testing.T) {
	repo, err := NewMajorRepository("http://catalogue.invalid", nil, 0, nil)
	require.NoError(t, err)

	id, ok := repo.ProgramID("ACCOUN-BS")
	require.True(t, ok)
	assert.Equal(t, 29561, id)

	_, ok = repo.ProgramID("UNKNOWN-BS")
	assert.False(t, ok)
	assert.Greater(t, repo.ProgramCount(), 100)
}

func TestMajorRepositoryFetchProgramText(t *testing.T) {
	var gotPOID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPOID = r.URL.Query().Get("poid")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><style>p{}</style><script>var x = 1;</script></head>
<body><p>Intro</p><div>Required <b>courses</b></div></body></html>`))
	}))
	defer srv.Close()

	observer := &observerStub{}
	repo, err := NewMajorRepository(srv.URL, srv.Client(), 0, observer)
	require.NoError(t, err)

	text, err := repo.FetchProgramText(context.Background(), 29561)
	require.NoError(t, err)
	assert.Equal(t, "29561", gotPOID)
	assert.Contains(t, text, "Intro")
	assert.Contains(t, text, "Required courses")
	assert.NotContains(t, text, "var x")
	assert.NotContains(t, text, "p{}")
	require.Len(t, observer.calls, 1)
	assert.Equal(t, "catalogue", observer.calls[0].upstream)
}

func TestMajorRepositoryFetchProgramTextFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo, err := NewMajorRepository(srv.URL, srv.Client(), 0, nil)
	require.NoError(t, err)

	_, err = repo.FetchProgramText(context.Background(), 1)
	assert.True(t, errors.Is(err, ErrProgramUnavailable))
}
