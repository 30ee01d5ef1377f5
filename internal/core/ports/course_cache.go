package ports

import (
	"context"

	"github.com/coursehub/course-management/internal/core/domain"
)

// CourseCache is a read cache for course listings keyed by search term.
// Get reports the cache version it observed alongside the result; after a
// miss, Set must be called with that same version so a listing read
// concurrently with an Invalidate lands under the superseded version instead
// of the current one. Invalidate must take effect before the mutating request
// returns, so reads through the cache stay immediately consistent.
// Implementations degrade to a miss on backend failure; they never fail the
// read path.
type CourseCache interface {
	Get(ctx context.Context, search string) ([]*domain.Course, int64, bool)
	Set(ctx context.Context, search string, version int64, courses []*domain.Course)
	Invalidate(ctx context.Context)
}
