package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *model.Device) error
	FindTokensByUser(ctx context.Context, userID uint) ([]string, error)
	DeleteByToken(ctx context.Context, token string, userID uint) error
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, device *model.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *deviceRepository) FindTokensByUser(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	if err := r.db.WithContext(ctx).
		Model(&model.Device{}).
		Where("user_id = ?", userID).
		Pluck("fcm_token", &tokens).Error; err != nil {
		return nil, err
	}
	return tokens, nil
}

func (r *deviceRepository) DeleteByToken(ctx context.Context, token string, userID uint) error {
	return r.db.WithContext(ctx).
		Where("fcm_token = ? AND user_id = ?", token, userID).
		Delete(&model.Device{}).Error
}
