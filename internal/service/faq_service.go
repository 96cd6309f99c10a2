package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"github.com/meilisearch/meilisearch-go"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"gorm.io/gorm"
)

const faqIndex = "faqs"

type FaqService interface {
	Create(ctx context.Context, req dto.CreateFaqRequest) (*model.Faq, error)
	Find(ctx context.Context, query dto.ListFaqQuery) (dto.List[model.Faq], error)
	FindOne(ctx context.Context, id uint, lang string) (*model.Faq, error)
	Update(ctx context.Context, id uint, req dto.UpdateFaqRequest, lang string) (*model.Faq, error)
	Remove(ctx context.Context, id uint, lang string) error
	// Search runs a full-text query. Falls back to the database title filter
	// when no search backend is configured.
	Search(ctx context.Context, query dto.ListFaqQuery) (dto.List[model.Faq], error)
}

type faqService struct {
	faqRepo repository.FaqRepository
	search  meilisearch.ServiceManager
	i18n    *i18n.Translator
}

type meiliFaqDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func NewFaqService(faqRepo repository.FaqRepository, search meilisearch.ServiceManager, translator *i18n.Translator) FaqService {
	s := &faqService{faqRepo: faqRepo, search: search, i18n: translator}
	s.initIndex()
	return s
}

func (s *faqService) initIndex() {
	if s.search == nil {
		return
	}

	sortable := []string{"id"}
	if _, err := s.search.Index(faqIndex).UpdateSortableAttributes(&sortable); err != nil {
		log.Printf("faq: updating sortable attributes: %v", err)
	}
}

func (s *faqService) Create(ctx context.Context, req dto.CreateFaqRequest) (*model.Faq, error) {
	faq := &model.Faq{Title: req.Title, Content: req.Content}
	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, err
	}

	s.index(faq)
	return faq, nil
}

func (s *faqService) Find(ctx context.Context, query dto.ListFaqQuery) (dto.List[model.Faq], error) {
	faqs, total, err := s.faqRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Faq]{}, err
	}
	return dto.NewList(faqs, query.ListQuery, total), nil
}

func (s *faqService) FindOne(ctx context.Context, id uint, lang string) (*model.Faq, error) {
	faq, err := s.faqRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("faq.not_found", lang, nil))
		}
		return nil, err
	}
	return faq, nil
}

func (s *faqService) Update(ctx context.Context, id uint, req dto.UpdateFaqRequest, lang string) (*model.Faq, error) {
	faq, err := s.FindOne(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	faq.Title = req.Title
	faq.Content = req.Content
	if err := s.faqRepo.Save(ctx, faq); err != nil {
		return nil, err
	}

	s.index(faq)
	return faq, nil
}

func (s *faqService) Remove(ctx context.Context, id uint, lang string) error {
	if _, err := s.FindOne(ctx, id, lang); err != nil {
		return err
	}
	if err := s.faqRepo.Delete(ctx, id); err != nil {
		return err
	}

	if s.search != nil {
		if _, err := s.search.Index(faqIndex).DeleteDocument(strconv.FormatUint(uint64(id), 10)); err != nil {
			log.Printf("faq: deleting document %d from index: %v", id, err)
		}
	}
	return nil
}

func (s *faqService) Search(ctx context.Context, query dto.ListFaqQuery) (dto.List[model.Faq], error) {
	if s.search == nil || query.Title == "" {
		return s.Find(ctx, query)
	}

	resp, err := s.search.Index(faqIndex).Search(query.Title, &meilisearch.SearchRequest{
		Limit:  int64(query.Limit()),
		Offset: int64(query.Offset()),
	})
	if err != nil {
		log.Printf("faq: search backend: %v", err)
		return s.Find(ctx, query)
	}

	ids := make([]uint, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			continue
		}
		var doc meiliFaqDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		if id, err := strconv.ParseUint(doc.ID, 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}

	faqs, err := s.faqRepo.FindByIDs(ctx, ids)
	if err != nil {
		return dto.List[model.Faq]{}, err
	}

	// Preserve the relevance order from the search backend.
	byID := make(map[uint]model.Faq, len(faqs))
	for _, faq := range faqs {
		byID[faq.ID] = faq
	}
	ordered := make([]model.Faq, 0, len(ids))
	for _, id := range ids {
		if faq, ok := byID[id]; ok {
			ordered = append(ordered, faq)
		}
	}

	return dto.NewList(ordered, query.ListQuery, resp.EstimatedTotalHits), nil
}

func (s *faqService) index(faq *model.Faq) {
	if s.search == nil {
		return
	}

	doc := meiliFaqDoc{
		ID:      strconv.FormatUint(uint64(faq.ID), 10),
		Title:   faq.Title,
		Content: faq.Content,
	}

	if _, err := s.search.Index(faqIndex).AddDocuments([]meiliFaqDoc{doc}, strPtr("id")); err != nil {
		log.Printf("faq: indexing document %d: %v", faq.ID, err)
	}
}

func strPtr(s string) *string { return &s }
