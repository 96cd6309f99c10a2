package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	FindByID(ctx context.Context, id uint) (*model.Request, error)
	FindPage(ctx context.Context, query dto.ListRequestQuery) ([]model.Request, int64, error)
	Save(ctx context.Context, request *model.Request) error
	Delete(ctx context.Context, id uint) error
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Omit("User").Create(request).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id uint) (*model.Request, error) {
	var request model.Request
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&request, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) FindPage(ctx context.Context, query dto.ListRequestQuery) ([]model.Request, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Request{})

	if query.Name != "" {
		q = q.Where("name ILIKE ?", "%"+query.Name+"%")
	}
	if query.UserID != 0 {
		q = q.Where("user_id = ?", query.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []model.Request
	order := query.Order(map[string]bool{"id": true, "name": true, "deadline": true, "created_at": true}, "id")
	if err := q.Preload("User").
		Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) Save(ctx context.Context, request *model.Request) error {
	return r.db.WithContext(ctx).Omit("User").Save(request).Error
}

func (r *requestRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Request{}, "id = ?", id).Error
}
