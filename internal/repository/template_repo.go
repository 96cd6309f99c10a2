package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type TemplateRepository interface {
	CreateWithTargets(ctx context.Context, template *model.Template, users []model.User, topics []model.Topic) error
	FindByID(ctx context.Context, id uint) (*model.Template, error)
	FindPage(ctx context.Context, query dto.ListTemplateQuery) ([]model.Template, int64, error)
	SaveWithTargets(ctx context.Context, template *model.Template, users []model.User, topics []model.Topic) error
	Delete(ctx context.Context, id uint) error
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

// CreateWithTargets persists the template and its target selector. A template
// targets users or topics, never both; the unused list is empty.
func (r *templateRepository) CreateWithTargets(ctx context.Context, template *model.Template, users []model.User, topics []model.Topic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Topics").Create(template).Error; err != nil {
			return err
		}
		if err := tx.Model(template).Association("Users").Replace(users); err != nil {
			return err
		}
		return tx.Model(template).Association("Topics").Replace(topics)
	})
}

func (r *templateRepository) FindByID(ctx context.Context, id uint) (*model.Template, error) {
	var template model.Template
	if err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Topics").
		First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) FindPage(ctx context.Context, query dto.ListTemplateQuery) ([]model.Template, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Template{})

	if query.Type != "" {
		q = q.Where("type = ?", query.Type)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var templates []model.Template
	order := query.Order(map[string]bool{"id": true, "title": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&templates).Error; err != nil {
		return nil, 0, err
	}

	return templates, total, nil
}

func (r *templateRepository) SaveWithTargets(ctx context.Context, template *model.Template, users []model.User, topics []model.Topic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Topics").Save(template).Error; err != nil {
			return err
		}
		if err := tx.Model(template).Association("Users").Replace(users); err != nil {
			return err
		}
		return tx.Model(template).Association("Topics").Replace(topics)
	})
}

func (r *templateRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Template{}, "id = ?", id).Error
}
