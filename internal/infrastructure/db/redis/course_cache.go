package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/api/metrics"
	"github.com/coursehub/course-management/internal/core/domain"
)

const (
	cacheTTL        = 5 * time.Minute
	listVersionKey  = "courses:list:ver"
	listKeyTemplate = "courses:list:v%d:%s"

	// versionUnknown marks a Get that could not read the version counter.
	// Set refuses to store under it.
	versionUnknown = int64(-1)
)

// CourseCache caches course listings per search term behind a version counter.
// Invalidate bumps the counter with a single INCR, which orphans every entry
// written under the previous version; orphans expire via TTL. The bump happens
// on the mutating request before it returns, so a subsequent read can never see
// a pre-mutation listing.
//
// Get returns the version it observed and Set writes under that version, not
// the current one. A listing read from the store while an Invalidate lands in
// between is therefore written under the superseded version and never served.
//
// Every failure path degrades to a cache miss. Redis being down slows reads
// down, it never breaks them.
type CourseCache struct {
	client *redis.Client
	log    zerolog.Logger
}

// NewCourseCache creates a CourseCache wrapping the given Redis client.
func NewCourseCache(client *redis.Client, log zerolog.Logger) *CourseCache {
	return &CourseCache{client: client, log: log}
}

// Get returns the cached listing for search, if a fresh entry exists under the
// current version, along with the version observed.
func (c *CourseCache) Get(ctx context.Context, search string) ([]*domain.Course, int64, bool) {
	ver, err := c.version(ctx)
	if err != nil {
		c.miss(err)
		return nil, versionUnknown, false
	}

	raw, err := c.client.Get(ctx, c.key(ver, search)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.miss(err)
			return nil, ver, false
		}
		metrics.ListCacheTotal.WithLabelValues("miss").Inc()
		return nil, ver, false
	}

	var courses []*domain.Course
	if err := json.Unmarshal(raw, &courses); err != nil {
		c.miss(err)
		return nil, ver, false
	}

	metrics.ListCacheTotal.WithLabelValues("hit").Inc()
	return courses, ver, true
}

// Set stores the listing for search under the version observed by the Get
// that missed. An Invalidate that landed since then leaves this entry
// orphaned under the old version.
func (c *CourseCache) Set(ctx context.Context, search string, version int64, courses []*domain.Course) {
	if version == versionUnknown {
		return
	}

	raw, err := json.Marshal(courses)
	if err != nil {
		c.log.Warn().Err(err).Msg("course cache marshal failed")
		return
	}

	if err := c.client.Set(ctx, c.key(version, search), raw, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("course cache set failed")
	}
}

// Invalidate drops all cached listings by bumping the version counter.
func (c *CourseCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, listVersionKey).Err(); err != nil {
		c.log.Warn().Err(err).Msg("course cache invalidation failed")
	}
}

func (c *CourseCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, listVersionKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return ver, err
}

func (c *CourseCache) key(ver int64, search string) string {
	return fmt.Sprintf(listKeyTemplate, ver, strings.ToLower(search))
}

func (c *CourseCache) miss(err error) {
	metrics.ListCacheTotal.WithLabelValues("miss").Inc()
	c.log.Warn().Err(err).Msg("course cache read failed")
}
