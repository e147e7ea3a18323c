package ports

import (
	"context"

	"github.com/catalogworks/catalog/internal/core/domain"
)

// AuthRepository defines the interface for user credential persistence.
type AuthRepository interface {
	FindByUserName(ctx context.Context, userName string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateLoginHistory replaces the stored history for one user.
	UpdateLoginHistory(ctx context.Context, userName string, history []domain.LoginRecord) error
}
