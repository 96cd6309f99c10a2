package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"gorm.io/gorm"
)

var nonLetters = regexp.MustCompile(`[^A-Za-z]+`)

// NormalizeName strips everything that is not a letter and upper-cases the
// rest. Role and topic names are stored in this form, so uniqueness checks are
// plain string comparisons.
func NormalizeName(name string) string {
	return strings.ToUpper(nonLetters.ReplaceAllString(name, ""))
}

type RoleService interface {
	// Seed ensures every system role exists. Idempotent; a duplicate insert
	// racing the existence check is tolerated.
	Seed(ctx context.Context) error
	// Can reports whether any of the given roles grants the capability.
	Can(ctx context.Context, roles []model.Role, capability string) (bool, error)
	Create(ctx context.Context, req dto.CreateRoleRequest, lang string) (*model.Role, error)
	Find(ctx context.Context, query dto.ListRoleQuery) (dto.List[model.Role], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.Role, error)
	Update(ctx context.Context, id uint, req dto.UpdateRoleRequest, lang string) (*model.Role, error)
	Remove(ctx context.Context, id uint, lang string) error
}

type roleService struct {
	roleRepo       repository.RoleRepository
	userRepo       repository.UserRepository
	permissionRepo repository.PermissionRepository
	i18n           *i18n.Translator
}

func NewRoleService(
	roleRepo repository.RoleRepository,
	userRepo repository.UserRepository,
	permissionRepo repository.PermissionRepository,
	translator *i18n.Translator,
) RoleService {
	return &roleService{
		roleRepo:       roleRepo,
		userRepo:       userRepo,
		permissionRepo: permissionRepo,
		i18n:           translator,
	}
}

func (s *roleService) Seed(ctx context.Context) error {
	for _, name := range model.SystemRoles {
		_, err := s.roleRepo.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role := &model.Role{
			Name:       name,
			IsActive:   true,
			Deleteable: false,
		}
		if err := s.roleRepo.Create(ctx, role); err != nil {
			// A concurrent seed may have inserted the row between the check
			// and the create; that leaves the system in the desired state.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *roleService) Can(ctx context.Context, roles []model.Role, capability string) (bool, error) {
	for _, role := range roles {
		if role.Name == model.RoleAdmin {
			return true, nil
		}

		if !role.IsActive {
			continue
		}

		permissions, err := s.roleRepo.FindPermissions(ctx, role.ID)
		if err != nil {
			return false, err
		}

		for _, permission := range permissions {
			for _, api := range permission.Apis {
				if api == capability {
					return true, nil
				}
			}
		}
	}

	return false, nil
}

func (s *roleService) Create(ctx context.Context, req dto.CreateRoleRequest, lang string) (*model.Role, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.ErrBadRequest, s.i18n.T("role.name_invalid", lang, nil))
	}

	if _, err := s.roleRepo.FindByName(ctx, name); err == nil {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("role.existed", lang, nil))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	permissions, err := s.permissionRepo.FindByIDs(ctx, req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        name,
		Description: req.Description,
		IsActive:    req.IsActive,
		Deleteable:  true,
	}

	if err := s.roleRepo.SaveWithMembers(ctx, role, users, permissions, true); err != nil {
		return nil, err
	}

	return s.roleRepo.FindByID(ctx, role.ID)
}

func (s *roleService) Find(ctx context.Context, query dto.ListRoleQuery) (dto.List[model.Role], error) {
	roles, total, err := s.roleRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Role]{}, err
	}
	return dto.NewList(roles, query.ListQuery, total), nil
}

func (s *roleService) FindOne(ctx context.Context, id uint, lang string) (*model.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("role.not_found", lang, nil))
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, id uint, req dto.UpdateRoleRequest, lang string) (*model.Role, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.ErrBadRequest, s.i18n.T("role.name_invalid", lang, nil))
	}

	isNameReserved := false
	for _, system := range model.SystemRoles {
		if system == name {
			isNameReserved = true
			break
		}
	}

	role, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return nil, err
	}
	isSystemRole := role.IsSystem()

	role.Description = req.Description

	// The admin role can never be deactivated.
	if role.Name == model.RoleAdmin {
		role.IsActive = true
	} else {
		role.IsActive = req.IsActive
	}

	if isSystemRole && role.Name != name {
		return nil, apperror.New(apperror.ErrNotAcceptable, s.i18n.T("role.change_name_default", lang, nil))
	}

	if isNameReserved && !isSystemRole {
		return nil, apperror.New(apperror.ErrNotAcceptable, s.i18n.T("role.unique", lang, map[string]string{"roleName": name}))
	}

	if !isNameReserved && role.Deleteable {
		role.Name = name
	}

	// The admin role's permission set is never touched here; it grants
	// everything implicitly.
	replacePermissions := role.Name != model.RoleAdmin
	var permissions []model.Permission
	if replacePermissions {
		if permissions, err = s.permissionRepo.FindByIDs(ctx, req.PermissionIDs); err != nil {
			return nil, err
		}
	}

	users, err := s.userRepo.FindByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}

	if err := s.roleRepo.SaveWithMembers(ctx, role, users, permissions, replacePermissions); err != nil {
		return nil, err
	}

	return s.roleRepo.FindByID(ctx, role.ID)
}

func (s *roleService) Remove(ctx context.Context, id uint, lang string) error {
	role, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return err
	}

	if !role.Deleteable {
		return apperror.New(apperror.ErrForbidden, s.i18n.T("role.deleteable", lang, map[string]string{"roleName": role.Name}))
	}

	return s.roleRepo.Delete(ctx, id)
}
