package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/internal/repository"
	"github.com/vietlabs/base-backend/pkg/apperror"
	"github.com/vietlabs/base-backend/pkg/i18n"
	"github.com/vietlabs/base-backend/pkg/push"
	"gorm.io/gorm"
)

type NotificationService interface {
	// SeedTopics ensures every system topic exists. Idempotent.
	SeedTopics(ctx context.Context) error

	CreateTopic(ctx context.Context, req dto.CreateTopicRequest, lang string) (*model.Topic, error)
	FindTopics(ctx context.Context, query dto.ListTopicQuery) (dto.List[model.Topic], error)
	FindOneTopic(ctx context.Context, id uint, lang string) (*model.Topic, error)
	UpdateTopic(ctx context.Context, id uint, req dto.UpdateTopicRequest, lang string) (*model.Topic, error)
	RemoveTopic(ctx context.Context, id uint, lang string) error

	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, lang string) (*model.Template, error)
	FindTemplates(ctx context.Context, query dto.ListTemplateQuery) (dto.List[model.Template], error)
	FindOneTemplate(ctx context.Context, id uint, lang string) (*model.Template, error)
	UpdateTemplate(ctx context.Context, id uint, req dto.UpdateTemplateRequest, lang string) (*model.Template, error)
	RemoveTemplate(ctx context.Context, id uint, lang string) error
	// Send pushes the template to its targets and records a notification row
	// for every distinct recipient.
	Send(ctx context.Context, templateID uint, lang string) error

	// CreateNotice records a notification addressed to the user directly,
	// without any push delivery.
	CreateNotice(ctx context.Context, req dto.CreateNotificationRequest, user *model.User) (*model.Notification, error)
	FindByUser(ctx context.Context, userID uint, query dto.ListNotificationQuery) (dto.List[model.Notification], error)
	FindOneByUser(ctx context.Context, id, userID uint, lang string) (*model.Notification, error)
	MarkRead(ctx context.Context, id, userID uint, lang string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
	RemoveByUser(ctx context.Context, id, userID uint, lang string) error
	RemoveManyByUser(ctx context.Context, ids []uint, userID uint) error
	RemoveAllByUser(ctx context.Context, userID uint) error

	// SubscribeDevice registers an FCM token for the user and subscribes it
	// to the ALL topic plus every topic the user belongs to. The token is
	// recorded even when it cannot be verified; only the topic fan-out is
	// skipped.
	SubscribeDevice(ctx context.Context, user *model.User, fcmToken string) error
	// UnsubscribeDevice removes the token's registration and its topic
	// subscriptions.
	UnsubscribeDevice(ctx context.Context, user *model.User, fcmToken string) error
}

type notificationService struct {
	topicRepo        repository.TopicRepository
	templateRepo     repository.TemplateRepository
	notificationRepo repository.NotificationRepository
	deviceRepo       repository.DeviceRepository
	userRepo         repository.UserRepository
	transport        push.Transport
	i18n             *i18n.Translator
}

func NewNotificationService(
	topicRepo repository.TopicRepository,
	templateRepo repository.TemplateRepository,
	notificationRepo repository.NotificationRepository,
	deviceRepo repository.DeviceRepository,
	userRepo repository.UserRepository,
	transport push.Transport,
	translator *i18n.Translator,
) NotificationService {
	return &notificationService{
		topicRepo:        topicRepo,
		templateRepo:     templateRepo,
		notificationRepo: notificationRepo,
		deviceRepo:       deviceRepo,
		userRepo:         userRepo,
		transport:        transport,
		i18n:             translator,
	}
}

func (s *notificationService) SeedTopics(ctx context.Context) error {
	for _, name := range model.SystemTopics {
		_, err := s.topicRepo.FindByName(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		topic := &model.Topic{Name: name, Deleteable: false}
		if err := s.topicRepo.Create(ctx, topic); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *notificationService) CreateTopic(ctx context.Context, req dto.CreateTopicRequest, lang string) (*model.Topic, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.ErrBadRequest, s.i18n.T("notification.topic.name_invalid", lang, nil))
	}

	for _, system := range model.SystemTopics {
		if system == name {
			return nil, apperror.New(apperror.ErrNotAcceptable, s.i18n.T("notification.topic.unique", lang, map[string]string{"topicName": name}))
		}
	}

	if _, err := s.topicRepo.FindByName(ctx, name); err == nil {
		return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("notification.topic.existed", lang, nil))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	users, err := s.userRepo.FindByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}

	topic := &model.Topic{
		Name:        name,
		Description: req.Description,
		Deleteable:  true,
	}

	if err := s.topicRepo.CreateWithMembers(ctx, topic, users); err != nil {
		return nil, err
	}

	s.subscribeUsers(ctx, users, name)

	return s.topicRepo.FindByID(ctx, topic.ID)
}

func (s *notificationService) FindTopics(ctx context.Context, query dto.ListTopicQuery) (dto.List[model.Topic], error) {
	topics, total, err := s.topicRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Topic]{}, err
	}
	return dto.NewList(topics, query.ListQuery, total), nil
}

func (s *notificationService) FindOneTopic(ctx context.Context, id uint, lang string) (*model.Topic, error) {
	topic, err := s.topicRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("notification.topic.not_found", lang, nil))
		}
		return nil, err
	}
	return topic, nil
}

func (s *notificationService) UpdateTopic(ctx context.Context, id uint, req dto.UpdateTopicRequest, lang string) (*model.Topic, error) {
	name := NormalizeName(req.Name)
	if name == "" {
		return nil, apperror.New(apperror.ErrBadRequest, s.i18n.T("notification.topic.name_invalid", lang, nil))
	}

	topic, err := s.FindOneTopic(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	if topic.IsSystem() && topic.Name != name {
		return nil, apperror.New(apperror.ErrNotAcceptable, s.i18n.T("notification.topic.change_name_default", lang, nil))
	}

	if !topic.IsSystem() {
		for _, system := range model.SystemTopics {
			if system == name {
				return nil, apperror.New(apperror.ErrNotAcceptable, s.i18n.T("notification.topic.unique", lang, map[string]string{"topicName": name}))
			}
		}
	}

	if topic.Name != name {
		if _, err := s.topicRepo.FindByName(ctx, name); err == nil {
			return nil, apperror.New(apperror.ErrForbidden, s.i18n.T("notification.topic.existed", lang, nil))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// The ALL topic carries every device implicitly; it never tracks an
	// explicit member list and no FCM (un)subscriptions are issued for it.
	if topic.Name == model.TopicAll {
		topic.Description = req.Description
		if err := s.topicRepo.Save(ctx, topic); err != nil {
			return nil, err
		}
		return s.topicRepo.FindByID(ctx, topic.ID)
	}

	users, err := s.userRepo.FindByIDs(ctx, req.UserIDs)
	if err != nil {
		return nil, err
	}

	oldName := topic.Name
	oldUsers := topic.Users
	renamed := oldName != name

	// A rename moves the whole membership to the new FCM topic; otherwise
	// only the membership diff is touched.
	if renamed {
		s.unsubscribeUsers(ctx, oldUsers, oldName)
	} else {
		s.unsubscribeUsers(ctx, diffUsers(oldUsers, users), oldName)
	}

	topic.Name = name
	topic.Description = req.Description

	if err := s.topicRepo.SaveWithMembers(ctx, topic, users); err != nil {
		return nil, err
	}

	if renamed {
		s.subscribeUsers(ctx, users, topic.Name)
	} else {
		s.subscribeUsers(ctx, diffUsers(users, oldUsers), topic.Name)
	}

	return s.topicRepo.FindByID(ctx, topic.ID)
}

func (s *notificationService) RemoveTopic(ctx context.Context, id uint, lang string) error {
	topic, err := s.FindOneTopic(ctx, id, lang)
	if err != nil {
		return err
	}

	if !topic.Deleteable {
		return apperror.New(apperror.ErrForbidden, s.i18n.T("notification.topic.deleteable", lang, map[string]string{"topicName": topic.Name}))
	}

	s.unsubscribeUsers(ctx, topic.Users, topic.Name)

	return s.topicRepo.Delete(ctx, id)
}

func (s *notificationService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, lang string) (*model.Template, error) {
	users, topics, err := s.resolveTargets(ctx, req.Type, req.UserIDs, req.TopicIDs)
	if err != nil {
		return nil, err
	}

	template := &model.Template{
		Title:   req.Title,
		Content: req.Content,
		Type:    req.Type,
	}

	if err := s.templateRepo.CreateWithTargets(ctx, template, users, topics); err != nil {
		return nil, err
	}

	return s.templateRepo.FindByID(ctx, template.ID)
}

func (s *notificationService) FindTemplates(ctx context.Context, query dto.ListTemplateQuery) (dto.List[model.Template], error) {
	templates, total, err := s.templateRepo.FindPage(ctx, query)
	if err != nil {
		return dto.List[model.Template]{}, err
	}
	return dto.NewList(templates, query.ListQuery, total), nil
}

func (s *notificationService) FindOneTemplate(ctx context.Context, id uint, lang string) (*model.Template, error) {
	template, err := s.templateRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("notification.template.not_found", lang, nil))
		}
		return nil, err
	}
	return template, nil
}

func (s *notificationService) UpdateTemplate(ctx context.Context, id uint, req dto.UpdateTemplateRequest, lang string) (*model.Template, error) {
	template, err := s.FindOneTemplate(ctx, id, lang)
	if err != nil {
		return nil, err
	}

	users, topics, err := s.resolveTargets(ctx, req.Type, req.UserIDs, req.TopicIDs)
	if err != nil {
		return nil, err
	}

	template.Title = req.Title
	template.Content = req.Content
	template.Type = req.Type

	if err := s.templateRepo.SaveWithTargets(ctx, template, users, topics); err != nil {
		return nil, err
	}

	return s.templateRepo.FindByID(ctx, template.ID)
}

func (s *notificationService) RemoveTemplate(ctx context.Context, id uint, lang string) error {
	if _, err := s.FindOneTemplate(ctx, id, lang); err != nil {
		return err
	}
	return s.templateRepo.Delete(ctx, id)
}

func (s *notificationService) Send(ctx context.Context, templateID uint, lang string) error {
	template, err := s.FindOneTemplate(ctx, templateID, lang)
	if err != nil {
		return err
	}

	notification := push.Notification{Title: template.Title, Body: template.Content}

	var recipients []model.User
	switch template.Type {
	case model.TemplateTypeUser:
		recipients = template.Users

		var tokens []string
		for _, user := range template.Users {
			userTokens, err := s.deviceRepo.FindTokensByUser(ctx, user.ID)
			if err != nil {
				return err
			}
			tokens = append(tokens, userTokens...)
		}

		if len(tokens) > 0 {
			if err := s.transport.SendMulticast(ctx, tokens, notification); err != nil {
				log.Printf("notification: multicast send failed: %v", err)
			}
		}

	case model.TemplateTypeTopic:
		for _, topic := range template.Topics {
			if err := s.transport.SendToTopic(ctx, topic.Name, notification); err != nil {
				log.Printf("notification: topic %s send failed: %v", topic.Name, err)
			}

			// Every user belongs to ALL implicitly, so its membership is the
			// whole user table rather than a join-table lookup.
			var members []model.User
			if topic.Name == model.TopicAll {
				if members, err = s.userRepo.FindAll(ctx); err != nil {
					return err
				}
			} else {
				full, err := s.topicRepo.FindByID(ctx, topic.ID)
				if err != nil {
					return err
				}
				members = full.Users
			}
			recipients = append(recipients, members...)
		}
	}

	seen := make(map[uint]bool, len(recipients))
	rows := make([]model.Notification, 0, len(recipients))
	for _, user := range recipients {
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		rows = append(rows, model.Notification{
			Title:   template.Title,
			Content: template.Content,
			UserID:  user.ID,
		})
	}

	if len(rows) == 0 {
		return nil
	}
	return s.notificationRepo.CreateBatch(ctx, rows)
}

func (s *notificationService) CreateNotice(ctx context.Context, req dto.CreateNotificationRequest, user *model.User) (*model.Notification, error) {
	notification := &model.Notification{
		Title:   req.Title,
		Content: req.Content,
		UserID:  user.ID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) FindByUser(ctx context.Context, userID uint, query dto.ListNotificationQuery) (dto.List[model.Notification], error) {
	notifications, total, err := s.notificationRepo.FindPageByUser(ctx, userID, query)
	if err != nil {
		return dto.List[model.Notification]{}, err
	}
	return dto.NewList(notifications, query.ListQuery, total), nil
}

func (s *notificationService) FindOneByUser(ctx context.Context, id, userID uint, lang string) (*model.Notification, error) {
	notification, err := s.notificationRepo.FindOneByUser(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.ErrNotFound, s.i18n.T("notification.not_found", lang, nil))
		}
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint, lang string) (*model.Notification, error) {
	notification, err := s.FindOneByUser(ctx, id, userID, lang)
	if err != nil {
		return nil, err
	}

	notification.IsRead = true
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) RemoveByUser(ctx context.Context, id, userID uint, lang string) error {
	if _, err := s.FindOneByUser(ctx, id, userID, lang); err != nil {
		return err
	}
	return s.notificationRepo.Delete(ctx, id, userID)
}

func (s *notificationService) RemoveManyByUser(ctx context.Context, ids []uint, userID uint) error {
	return s.notificationRepo.DeleteByIDs(ctx, ids, userID)
}

func (s *notificationService) RemoveAllByUser(ctx context.Context, userID uint) error {
	return s.notificationRepo.DeleteAllByUser(ctx, userID)
}

func (s *notificationService) SubscribeDevice(ctx context.Context, user *model.User, fcmToken string) error {
	if fcmToken == "" {
		return nil
	}

	// The device row is recorded unconditionally; verification only gates
	// the topic fan-out so an unreachable FCM backend cannot lose devices.
	if err := s.deviceRepo.Create(ctx, &model.Device{FcmToken: fcmToken, UserID: user.ID}); err != nil {
		return err
	}

	if !s.transport.Verify(ctx, fcmToken) {
		return nil
	}

	topics, err := s.topicRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(topics)+1)
	names = append(names, model.TopicAll)
	for _, topic := range topics {
		names = append(names, topic.Name)
	}

	s.forEachTopic(ctx, names, []string{fcmToken}, s.transport.SubscribeToTopic)
	return nil
}

func (s *notificationService) UnsubscribeDevice(ctx context.Context, user *model.User, fcmToken string) error {
	if fcmToken == "" {
		return nil
	}

	if err := s.deviceRepo.DeleteByToken(ctx, fcmToken, user.ID); err != nil {
		return err
	}

	if !s.transport.Verify(ctx, fcmToken) {
		return nil
	}

	topics, err := s.topicRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(topics)+1)
	names = append(names, model.TopicAll)
	for _, topic := range topics {
		names = append(names, topic.Name)
	}

	s.forEachTopic(ctx, names, []string{fcmToken}, s.transport.UnsubscribeFromTopic)
	return nil
}

func (s *notificationService) resolveTargets(ctx context.Context, templateType model.TemplateType, userIDs, topicIDs []uint) ([]model.User, []model.Topic, error) {
	var users []model.User
	var topics []model.Topic
	var err error

	switch templateType {
	case model.TemplateTypeUser:
		if users, err = s.userRepo.FindByIDs(ctx, userIDs); err != nil {
			return nil, nil, err
		}
	case model.TemplateTypeTopic:
		if topics, err = s.topicRepo.FindByIDs(ctx, topicIDs); err != nil {
			return nil, nil, err
		}
	}

	return users, topics, nil
}

// subscribeUsers fans the topic subscription out across the members' device
// tokens. Transport failures are logged and do not fail the caller; the
// database stays the source of truth for membership.
func (s *notificationService) subscribeUsers(ctx context.Context, users []model.User, topicName string) {
	s.forEachUser(ctx, users, topicName, s.transport.SubscribeToTopic)
}

func (s *notificationService) unsubscribeUsers(ctx context.Context, users []model.User, topicName string) {
	s.forEachUser(ctx, users, topicName, s.transport.UnsubscribeFromTopic)
}

func (s *notificationService) forEachUser(ctx context.Context, users []model.User, topicName string, op func(context.Context, []string, string) error) {
	var wg sync.WaitGroup
	for _, user := range users {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			tokens, err := s.deviceRepo.FindTokensByUser(ctx, userID)
			if err != nil {
				log.Printf("notification: loading tokens for user %d: %v", userID, err)
				return
			}
			if len(tokens) == 0 {
				return
			}
			if err := op(ctx, tokens, topicName); err != nil {
				log.Printf("notification: topic %s sync for user %d: %v", topicName, userID, err)
			}
		}(user.ID)
	}
	wg.Wait()
}

func (s *notificationService) forEachTopic(ctx context.Context, topicNames, tokens []string, op func(context.Context, []string, string) error) {
	var wg sync.WaitGroup
	for _, name := range topicNames {
		wg.Add(1)
		go func(topicName string) {
			defer wg.Done()
			if err := op(ctx, tokens, topicName); err != nil {
				log.Printf("notification: topic %s device sync: %v", topicName, err)
			}
		}(name)
	}
	wg.Wait()
}

// diffUsers returns the members of a that are not in b.
func diffUsers(a, b []model.User) []model.User {
	inB := make(map[uint]bool, len(b))
	for _, user := range b {
		inB[user.ID] = true
	}

	var out []model.User
	for _, user := range a {
		if !inB[user.ID] {
			out = append(out, user)
		}
	}
	return out
}
