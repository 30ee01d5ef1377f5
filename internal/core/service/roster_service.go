package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/coursehub/course-management/internal/core/domain"
	"github.com/coursehub/course-management/internal/core/ports"
)

type rosterService struct {
	log zerolog.Logger
}

// NewRosterService returns a RosterService implementation that turns roster
// events into the structured activity stream. It runs on dispatcher workers,
// never on the request path.
func NewRosterService(log zerolog.Logger) ports.RosterService {
	return &rosterService{log: log}
}

// Process records a single roster event.
func (s *rosterService) Process(_ context.Context, event domain.RosterEvent) error {
	if event.CourseID == "" || event.UserID == "" {
		return fmt.Errorf("process roster event: %w", domain.ErrInvalidInput)
	}

	s.log.Info().
		Str("course_id", event.CourseID).
		Str("user_id", event.UserID).
		Str("action", string(event.Action)).
		Time("occurred_at", event.OccurredAt).
		Msg("roster activity")

	return nil
}
