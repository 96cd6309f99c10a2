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
	"github.com/vietlabs/base-backend/pkg/storage"
	"gorm.io/gorm"
)

type FileService interface {
	Upload(ctx context.Context, r io.Reader, name string, size int64, uploadedBy *model.User) (*model.File, error)
	Find(ctx context.Context, query dto.ListFileQuery) (dto.List[model.File], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.File, error)
	Remove(ctx context.Context, id uint, lang string) error
}

type fileService struct {
	fileRepo repository.FileRepository
	storage  storage.FileStorage
	i18n     *i18n.Translator
}

func NewFileService(fileRepo repository.FileRepository, fileStorage storage.FileStorage, translator *i18n.Translator) FileService {
	return &fileService{fileRepo: fileRepo, storage: fileStorage, i18n: translator}
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, name string, size int64, uploadedBy *model.User) (*model.File, error) {
	url, err := s.storage.Upload(ctx, r, "uploads", name)
	if err != nil {
		return nil, err
	}

	file := &model.File{
		Name: name,
		URL:  url,
		Size: size,
	}
	if uploadedBy != nil {
		file.UploadedByID = &uploadedBy.ID
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (s *fileService) Find(ctx context.Context, query dto.ListFileQuery) (dto.List[model.File], error) {
	files, total, err := s.fileRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.File]{}, err
	}
	return dto.NewList(files, query.ListQuery, total), nil
}

func (s *fileService) FindOne(ctx context.Context, id uint, lang string) (*model.File, error) {
	file, err := s.fileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("file.not_found", lang, nil))
		}
		return nil, err
	}
	return file, nil
}

func (s *fileService) Remove(ctx context.Context, id uint, lang string) error {
	file, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return err
	}

	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return err
	}

	// The row is gone either way; a dangling blob is cleaned up out of band.
	if err := s.storage.Delete(ctx, file.URL); err != nil {
		log.Printf("file: deleting %s from storage: %v", file.URL, err)
	}
	return nil
}
