package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

type fakeFileService struct {
	nextID  uint
	removed []uint
}

func (f *fakeFileService) Upload(_ context.Context, _ io.Reader, name string, size int64, uploadedBy *model.User) (*model.File, error) {
	f.nextID++
	file := &model.File{ID: f.nextID, Name: name, Size: size}
	if uploadedBy != nil {
		file.UploadedByID = &uploadedBy.ID
	}
	return file, nil
}

func (f *fakeFileService) Find(_ context.Context, query dto.ListFileQuery) (dto.List[model.File], error) {
	return dto.NewList([]model.File(nil), query.ListQuery, 0), nil
}

func (f *fakeFileService) FindOne(_ context.Context, id uint, _ string) (*model.File, error) {
	return &model.File{ID: id}, nil
}

func (f *fakeFileService) Remove(_ context.Context, id uint, _ string) error {
	f.removed = append(f.removed, id)
	return nil
}

func newUserFixture(t *testing.T) (UserService, *fakeUserRepo, *fakeRoleRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	roleRepo := newFakeRoleRepo()
	return NewUserService(userRepo, roleRepo, &fakeFileService{}, newTranslator(t)), userRepo, roleRepo
}

func TestCreateUser(t *testing.T) {
	svc, _, roleRepo := newUserFixture(t)
	role := roleRepo.add(model.Role{Name: "SUPPORT", IsActive: true, Deleteable: true})

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "a@example.com",
		Password: "secret1",
		IsActive: true,
		RoleIDs:  []uint{role.ID},
	}, "en")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.Password)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, "SUPPORT", user.Roles[0].Name)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	userRepo.add(model.User{Email: "a@example.com"})

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "a@example.com",
		Password: "secret1",
	}, "en")
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
}

func TestUpdateUserReplacesRoles(t *testing.T) {
	svc, userRepo, roleRepo := newUserFixture(t)
	oldRole := roleRepo.add(model.Role{Name: "SUPPORT", IsActive: true})
	newRole := roleRepo.add(model.Role{Name: "EDITOR", IsActive: true})
	user := userRepo.add(model.User{Email: "a@example.com", Roles: []model.Role{*oldRole}})

	updated, err := svc.Update(context.Background(), user.ID, dto.UpdateUserRequest{
		FirstName: "An",
		IsActive:  true,
		RoleIDs:   []uint{newRole.ID},
	}, "en")
	require.NoError(t, err)

	assert.Equal(t, "An", updated.FirstName)
	require.Len(t, updated.Roles, 1)
	assert.Equal(t, "EDITOR", updated.Roles[0].Name)
}

func TestRemoveUserSelfForbidden(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	user := userRepo.add(model.User{Email: "a@example.com"})

	err := svc.Remove(context.Background(), user.ID, user, "en")
	assert.True(t, errors.Is(err, apperror.ErrNotAcceptable))

	_, err = userRepo.FindByID(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestRemoveUser(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	actor := userRepo.add(model.User{Email: "admin@example.com"})
	target := userRepo.add(model.User{Email: "a@example.com"})

	require.NoError(t, svc.Remove(context.Background(), target.ID, actor, "en"))

	_, err := userRepo.FindByID(context.Background(), target.ID)
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	svc, userRepo, _ := newUserFixture(t)
	hashed, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	require.NoError(t, err)
	user := userRepo.add(model.User{Email: "a@example.com", Password: string(hashed)})

	tests := []struct {
		name    string
		req     dto.ChangePasswordRequest
		wantErr error
	}{
		{
			name:    "wrong old password",
			req:     dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass"},
			wantErr: apperror.ErrBadRequest,
		},
		{
			name:    "new password same as old",
			req:     dto.ChangePasswordRequest{OldPassword: "oldpass", NewPassword: "oldpass"},
			wantErr: apperror.ErrNotAcceptable,
		},
		{
			name: "valid change",
			req:  dto.ChangePasswordRequest{OldPassword: "oldpass", NewPassword: "newpass"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(context.Background(), user, tt.req, "en")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)

			stored, err := userRepo.FindByID(context.Background(), user.ID)
			require.NoError(t, err)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass")))
		})
	}
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	userRepo := newFakeUserRepo()
	files := &fakeFileService{}
	svc := NewUserService(userRepo, newFakeRoleRepo(), files, newTranslator(t))

	oldID := uint(7)
	user := userRepo.add(model.User{Email: "a@example.com", AvatarID: &oldID})

	file, err := svc.UploadAvatar(context.Background(), user, strings.NewReader("png"), "me.png", 3, "en")
	require.NoError(t, err)

	stored, err := userRepo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.AvatarID)
	assert.Equal(t, file.ID, *stored.AvatarID)
	assert.Equal(t, []uint{oldID}, files.removed)
}
