package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindPage(ctx context.Context, query dto.ListUserQuery) ([]model.User, int64, error)
	FindByRefreshToken(ctx context.Context, id uint, refreshToken string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	SaveWithRoles(ctx context.Context, user *model.User, roles []model.Role) error
	UpdateFields(ctx context.Context, id uint, fields map[string]any) error
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("Avatar").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) FindPage(ctx context.Context, query dto.ListUserQuery) ([]model.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.User{})

	if query.Email != "" {
		q = q.Where("email ILIKE ?", "%"+query.Email+"%")
	}
	if query.Phone != "" {
		q = q.Where("phone ILIKE ?", "%"+query.Phone+"%")
	}
	if query.IsActive != nil {
		q = q.Where("is_active = ?", *query.IsActive)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	order := query.Order(map[string]bool{"id": true, "email": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) FindByRefreshToken(ctx context.Context, id uint, refreshToken string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND refresh_token = ?", id, refreshToken).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SaveWithRoles persists the user and replaces its role set in one transaction
// so partial membership writes are never observable.
func (r *userRepository) SaveWithRoles(ctx context.Context, user *model.User, roles []model.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles", "Topics", "Templates", "Avatar").Save(user).Error; err != nil {
			return err
		}
		return tx.Model(user).Association("Roles").Replace(roles)
	})
}

func (r *userRepository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id).Error
}
