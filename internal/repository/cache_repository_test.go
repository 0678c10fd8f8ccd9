package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/course-advisor-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest string
	err := repo.Get(ctx, "advisor:major:CSCI-BS", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "advisor:major:CSCI-BS", "text", time.Minute))
	assert.NoError(t, repo.Delete(ctx, "advisor:major:CSCI-BS"))
	assert.NoError(t, repo.Ping(ctx))
}
