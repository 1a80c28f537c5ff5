package admin

import (
	"context"

	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

// Repository is the storage contract for the admin roster.
type Repository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
	Delete(ctx context.Context, userID int64) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
