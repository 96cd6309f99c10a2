package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	Create(ctx context.Context, permission *model.Permission) error
	FindByID(ctx context.Context, id uint) (*model.Permission, error)
	FindByName(ctx context.Context, name string) (*model.Permission, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Permission, error)
	FindPage(ctx context.Context, query dto.ListPermissionQuery) ([]model.Permission, int64, error)
	Save(ctx context.Context, permission *model.Permission) error
	Delete(ctx context.Context, id uint) error
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).Create(permission).Error
}

func (r *permissionRepository) FindByID(ctx context.Context, id uint) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.WithContext(ctx).
		Preload("Role").
		First(&permission, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) FindByName(ctx context.Context, name string) (*model.Permission, error) {
	var permission model.Permission
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *permissionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Permission, error) {
	var permissions []model.Permission
	if len(ids) == 0 {
		return permissions, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (r *permissionRepository) FindPage(ctx context.Context, query dto.ListPermissionQuery) ([]model.Permission, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Permission{})

	if query.Name != "" {
		q = q.Where("name ILIKE ?", "%"+query.Name+"%")
	}
	if query.Role != "" {
		q = q.Joins("JOIN roles ON roles.id = permissions.role_id").
			Where("roles.name ILIKE ?", "%"+query.Role+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var permissions []model.Permission
	order := query.Order(map[string]bool{"id": true, "name": true, "created_at": true}, "id")
	if err := q.Preload("Role").
		Order("permissions." + order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&permissions).Error; err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

func (r *permissionRepository) Save(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).Omit("Role").Save(permission).Error
}

func (r *permissionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Permission{}, "id = ?", id).Error
}
