package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/balzampsilo-sys/tg-bot-10-02/internal/domain/admin"
	"github.com/balzampsilo-sys/tg-bot-10-02/internal/models"
)

type AdminGormRepository struct {
	db *gorm.DB
}

func NewAdminGormRepository(db *gorm.DB) *AdminGormRepository {
	return &AdminGormRepository{db: db}
}

func (r *AdminGormRepository) GetByUserID(
	ctx context.Context,
	userID int64,
) (*models.Admin, error) {

	var a models.Admin
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminGormRepository) List(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, user_id ASC").
		Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}

func (r *AdminGormRepository) Create(ctx context.Context, a *models.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminGormRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.Admin{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AdminGormRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Admin{}).
		Where("role = ?", role).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Compile-time check
var _ domain.Repository = (*AdminGormRepository)(nil)
