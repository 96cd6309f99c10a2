package service

import (
	"context"
	"errors"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"gorm.io/gorm"
)

type RequestService interface {
	Create(ctx context.Context, req dto.CreateRequestRequest, lang string) (*model.Request, error)
	Find(ctx context.Context, query dto.ListRequestQuery) (dto.List[model.Request], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.Request, error)
	Update(ctx context.Context, id uint, req dto.UpdateRequestRequest, lang string) (*model.Request, error)
	Remove(ctx context.Context, id uint, lang string) error
}

type requestService struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	i18n        *i18n.Translator
}

func NewRequestService(requestRepo repository.RequestRepository, userRepo repository.UserRepository, translator *i18n.Translator) RequestService {
	return &requestService{requestRepo: requestRepo, userRepo: userRepo, i18n: translator}
}

func (s *requestService) Create(ctx context.Context, req dto.CreateRequestRequest, lang string) (*model.Request, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("user.not_found", lang, nil))
		}
		return nil, err
	}

	request := &model.Request{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		UserID:      req.UserID,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, request.ID)
}

func (s *requestService) Find(ctx context.Context, query dto.ListRequestQuery) (dto.List[model.Request], error) {
	requests, total, err := s.requestRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Request]{}, err
	}
	return dto.NewList(requests, query.ListQuery, total), nil
}

func (s *requestService) FindOne(ctx context.Context, id uint, lang string) (*model.Request, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("request.not_found", lang, nil))
		}
		return nil, err
	}
	return request, nil
}

func (s *requestService) Update(ctx context.Context, id uint, req dto.UpdateRequestRequest, lang string) (*model.Request, error) {
	request, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("user.not_found", lang, nil))
		}
		return nil, err
	}

	request.Name = req.Name
	request.Description = req.Description
	request.Deadline = req.Deadline
	request.UserID = req.UserID
	request.User = nil

	if err := s.requestRepo.Save(ctx, request); err != nil {
		return nil, err
	}
	return s.requestRepo.FindByID(ctx, request.ID)
}

func (s *requestService) Remove(ctx context.Context, id uint, lang string) error {
	if _, err := s.FindOne(ctx, id, lang); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, id)
}
