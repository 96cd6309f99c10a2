package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type FaqRepository interface {
	Create(ctx context.Context, faq *model.Faq) error
	FindByID(ctx context.Context, id uint) (*model.Faq, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Faq, error)
	FindPage(ctx context.Context, query dto.ListFaqQuery) ([]model.Faq, int64, error)
	Save(ctx context.Context, faq *model.Faq) error
	Delete(ctx context.Context, id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) Create(ctx context.Context, faq *model.Faq) error {
	return r.db.WithContext(ctx).Create(faq).Error
}

func (r *faqRepository) FindByID(ctx context.Context, id uint) (*model.Faq, error) {
	var faq model.Faq
	if err := r.db.WithContext(ctx).First(&faq, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &faq, nil
}

func (r *faqRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Faq, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var faqs []model.Faq
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&faqs).Error; err != nil {
		return nil, err
	}
	return faqs, nil
}

func (r *faqRepository) FindPage(ctx context.Context, query dto.ListFaqQuery) ([]model.Faq, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Faq{})

	if query.Title != "" {
		q = q.Where("title ILIKE ?", "%"+query.Title+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var faqs []model.Faq
	order := query.Order(map[string]bool{"id": true, "title": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&faqs).Error; err != nil {
		return nil, 0, err
	}

	return faqs, total, nil
}

func (r *faqRepository) Save(ctx context.Context, faq *model.Faq) error {
	return r.db.WithContext(ctx).Save(faq).Error
}

func (r *faqRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Faq{}, "id = ?", id).Error
}
