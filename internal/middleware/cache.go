package middleware

import "github.com/gin-gonic/gin"

const (
	cacheHitKey = "cache_hit"
	cacheHeader = "X-Cache"
)

// SetCacheHit marks whether the response was served from cache, as a context
// value and as an X-Cache header. Call it before writing the body.
func SetCacheHit(c *gin.Context, hit bool) {
	if c == nil {
		return
	}
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(cacheHeader, "HIT")
	} else {
		c.Header(cacheHeader, "MISS")
	}
}

// CacheHit reports the value recorded by SetCacheHit. ok is false when the
// handler never consulted a cache.
func CacheHit(c *gin.Context) (hit bool, ok bool) {
	if c == nil {
		return false, false
	}
	v, exists := c.Get(cacheHitKey)
	if !exists {
		return false, false
	}
	hit, ok = v.(bool)
	return hit, ok
}
