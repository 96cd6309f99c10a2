package service

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService interface {
	Create(ctx context.Context, req dto.CreateUserRequest, lang string) (*model.User, error)
	Find(ctx context.Context, query dto.ListUserQuery) (dto.List[model.User], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.User, error)
	Update(ctx context.Context, id uint, req dto.UpdateUserRequest, lang string) (*model.User, error)
	Remove(ctx context.Context, id uint, actor *model.User, lang string) error

	UpdateProfile(ctx context.Context, user *model.User, req dto.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, user *model.User, req dto.ChangePasswordRequest, lang string) error
	// UploadAvatar stores the image, points the user at it and drops the
	// previous avatar file.
	UploadAvatar(ctx context.Context, user *model.User, r io.Reader, name string, size int64, lang string) (*model.File, error)
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	files    FileService
	i18n     *i18n.Translator
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, files FileService, translator *i18n.Translator) UserService {
	return &userService{userRepo: userRepo, roleRepo: roleRepo, files: files, i18n: translator}
}

func (s *userService) Create(ctx context.Context, req dto.CreateUserRequest, lang string) (*model.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("user.email.existed", lang, nil))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.FindByIDs(ctx, req.RoleIDs)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Password:  string(hashed),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  req.IsActive,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if len(roles) > 0 {
		if err := s.userRepo.SaveWithRoles(ctx, user, roles); err != nil {
			return nil, err
		}
	}

	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *userService) Find(ctx context.Context, query dto.ListUserQuery) (dto.List[model.User], error) {
	users, total, err := s.userRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.User]{}, err
	}
	return dto.NewList(users, query.ListQuery, total), nil
}

func (s *userService) FindOne(ctx context.Context, id uint, lang string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("user.not_found", lang, nil))
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest, lang string) (*model.User, error) {
	user, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	roles, err := s.roleRepo.FindByIDs(ctx, req.RoleIDs)
	if err != nil {
		return nil, err
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.IsActive = req.IsActive

	if err := s.userRepo.SaveWithRoles(ctx, user, roles); err != nil {
		return nil, err
	}

	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *userService) Remove(ctx context.Context, id uint, actor *model.User, lang string) error {
	if actor != nil && actor.ID == id {
		return apperror.New(apperror.ErrNotAcceptable, s.i18n.T("user.can_not_self", lang, nil))
	}

	if _, err := s.FindOne(ctx, id, lang); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}

func (s *userService) UpdateProfile(ctx context.Context, user *model.User, req dto.UpdateProfileRequest) (*model.User, error) {
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.FindByID(ctx, user.ID)
}

func (s *userService) ChangePassword(ctx context.Context, user *model.User, req dto.ChangePasswordRequest, lang string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return apperror.New(apperror.ErrBadRequest, s.i18n.T("user.old_password_invalid", lang, nil))
	}

	if req.OldPassword == req.NewPassword {
		return apperror.New(apperror.ErrNotAcceptable, s.i18n.T("user.password_not_same", lang, nil))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"password": string(hashed)})
}

func (s *userService) UploadAvatar(ctx context.Context, user *model.User, r io.Reader, name string, size int64, lang string) (*model.File, error) {
	oldAvatarID := user.AvatarID

	file, err := s.files.Upload(ctx, r, name, size, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"avatar_id": file.ID}); err != nil {
		return nil, err
	}

	if oldAvatarID != nil {
		if err := s.files.Remove(ctx, *oldAvatarID, lang); err != nil {
			log.Printf("user: removing previous avatar %d: %v", *oldAvatarID, err)
		}
	}

	return file, nil
}
