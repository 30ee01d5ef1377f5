package ports

import (
	"context"

	"github.com/coursehub/course-management/internal/core/domain"
)

// RosterService processes roster activity off the request path.
type RosterService interface {
	Process(ctx context.Context, event domain.RosterEvent) error
}

// RosterEnqueuer hands a roster event to the async pipeline without blocking
// the request beyond the channel buffer.
type RosterEnqueuer interface {
	Enqueue(event domain.RosterEvent)
}
