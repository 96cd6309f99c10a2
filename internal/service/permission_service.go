package service

import (
	"context"
	"errors"

	"github.com/vietlabs/base-backend/internal/apis"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"gorm.io/gorm"
)

type PermissionService interface {
	Create(ctx context.Context, req dto.CreatePermissionRequest, lang string) (*model.Permission, error)
	Find(ctx context.Context, query dto.ListPermissionQuery) (dto.List[model.Permission], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.Permission, error)
	Update(ctx context.Context, id uint, req dto.UpdatePermissionRequest, lang string) (*model.Permission, error)
	Remove(ctx context.Context, id uint, lang string) error
	// Catalog lists every capability the API exposes, grouped by module.
	Catalog() []apis.Group
}

type permissionService struct {
	permissionRepo repository.PermissionRepository
	roleRepo       repository.RoleRepository
	i18n           *i18n.Translator
}

func NewPermissionService(
	permissionRepo repository.PermissionRepository,
	roleRepo repository.RoleRepository,
	translator *i18n.Translator,
) PermissionService {
	return &permissionService{
		permissionRepo: permissionRepo,
		roleRepo:       roleRepo,
		i18n:           translator,
	}
}

func (s *permissionService) Create(ctx context.Context, req dto.CreatePermissionRequest, lang string) (*model.Permission, error) {
	if _, err := s.permissionRepo.FindByName(ctx, req.Name); err == nil {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("permission.existed", lang, nil))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("role.not_found", lang, nil))
		}
		return nil, err
	}

	permission := &model.Permission{
		Name:        req.Name,
		Description: req.Description,
		RoleID:      &req.RoleID,
		Apis:        apis.Filter(req.Apis),
	}

	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissionRepo.FindByID(ctx, permission.ID)
}

func (s *permissionService) Find(ctx context.Context, query dto.ListPermissionQuery) (dto.List[model.Permission], error) {
	permissions, total, err := s.permissionRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Permission]{}, err
	}
	return dto.NewList(permissions, query.ListQuery, total), nil
}

func (s *permissionService) FindOne(ctx context.Context, id uint, lang string) (*model.Permission, error) {
	permission, err := s.permissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("permission.not_found", lang, nil))
		}
		return nil, err
	}
	return permission, nil
}

func (s *permissionService) Update(ctx context.Context, id uint, req dto.UpdatePermissionRequest, lang string) (*model.Permission, error) {
	permission, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	if permission.Name != req.Name {
		if _, err := s.permissionRepo.FindByName(ctx, req.Name); err == nil {
			return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("permission.existed", lang, nil))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if _, err := s.roleRepo.FindByID(ctx, req.RoleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("role.not_found", lang, nil))
		}
		return nil, err
	}

	permission.Name = req.Name
	permission.Description = req.Description
	permission.RoleID = &req.RoleID
	permission.Apis = apis.Filter(req.Apis)

	if err := s.permissionRepo.Save(ctx, permission); err != nil {
		return nil, err
	}

	return s.permissionRepo.FindByID(ctx, permission.ID)
}

func (s *permissionService) Remove(ctx context.Context, id uint, lang string) error {
	if _, err := s.FindOne(ctx, id, lang); err != nil {
		return err
	}
	return s.permissionRepo.Delete(ctx, id)
}

func (s *permissionService) Catalog() []apis.Group {
	return apis.Groups
}
