package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error)
	FindPage(ctx context.Context, query dto.ListRoleQuery) ([]model.Role, int64, error)
	FindPermissions(ctx context.Context, roleID uint) ([]model.Permission, error)
	SaveWithMembers(ctx context.Context, role *model.Role, users []model.User, permissions []model.Permission, replacePermissions bool) error
	Delete(ctx context.Context, id uint) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Permissions").
		First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Role, error) {
	var roles []model.Role
	if len(ids) == 0 {
		return roles, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) FindPage(ctx context.Context, query dto.ListRoleQuery) ([]model.Role, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Role{})

	if query.Name != "" {
		q = q.Where("name ILIKE ?", "%"+query.Name+"%")
	}
	if query.IsActive != nil {
		q = q.Where("is_active = ?", *query.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []model.Role
	order := query.Order(map[string]bool{"id": true, "name": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

func (r *roleRepository) FindPermissions(ctx context.Context, roleID uint) ([]model.Permission, error) {
	var permissions []model.Permission
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// SaveWithMembers persists the role and replaces its user (and optionally
// permission) membership in one transaction.
func (r *roleRepository) SaveWithMembers(ctx context.Context, role *model.Role, users []model.User, permissions []model.Permission, replacePermissions bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Permissions").Save(role).Error; err != nil {
			return err
		}
		if err := tx.Model(role).Association("Users").Replace(users); err != nil {
			return err
		}
		if replacePermissions {
			if err := tx.Model(role).Association("Permissions").Replace(permissions); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Dependent permissions are owned by the role; delete them explicitly
		// instead of relying on an inferred cascade.
		if err := tx.Where("role_id = ?", id).Delete(&model.Permission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Role{}, "id = ?", id).Error
	})
}
