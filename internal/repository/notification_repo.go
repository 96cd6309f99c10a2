package repository

import (
	"context"
	"time"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	FindOneByUser(ctx context.Context, id, userID uint) (*model.Notification, error)
	FindPageByUser(ctx context.Context, userID uint, query dto.ListNotificationQuery) ([]model.Notification, int64, error)
	Save(ctx context.Context, notification *model.Notification) error
	MarkAllRead(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id, userID uint) error
	DeleteByIDs(ctx context.Context, ids []uint, userID uint) error
	DeleteAllByUser(ctx context.Context, userID uint) error
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepository) FindOneByUser(ctx context.Context, id, userID uint) (*model.Notification, error) {
	var notification model.Notification
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error; err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindPageByUser(ctx context.Context, userID uint, query dto.ListNotificationQuery) ([]model.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	order := query.Order(map[string]bool{"id": true, "created_at": true, "is_read": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) Save(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepository) DeleteByIDs(ctx context.Context, ids []uint, userID uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepository) DeleteAllByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Notification{}).Error
}

func (r *notificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&model.Notification{})
	return result.RowsAffected, result.Error
}
