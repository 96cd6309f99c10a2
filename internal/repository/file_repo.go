package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	FindByID(ctx context.Context, id uint) (*model.File, error)
	FindPage(ctx context.Context, query dto.ListFileQuery) ([]model.File, int64, error)
	Delete(ctx context.Context, id uint) error
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepository) FindByID(ctx context.Context, id uint) (*model.File, error) {
	var file model.File
	if err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepository) FindPage(ctx context.Context, query dto.ListFileQuery) ([]model.File, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.File{})

	if query.Name != "" {
		q = q.Where("name ILIKE ?", "%"+query.Name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var files []model.File
	order := query.Order(map[string]bool{"id": true, "name": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&files).Error; err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

func (r *fileRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.File{}, "id = ?", id).Error
}
