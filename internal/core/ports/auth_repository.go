package ports

import (
	"context"

	"github.com/coursehub/course-management/internal/core/domain"
)

// AuthRepository defines the interface for user identity persistence.
type AuthRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
