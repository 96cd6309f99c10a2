package repository

import (
	"context"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"gorm.io/gorm"
)

type TopicRepository interface {
	Create(ctx context.Context, topic *model.Topic) error
	CreateWithMembers(ctx context.Context, topic *model.Topic, users []model.User) error
	FindByID(ctx context.Context, id uint) (*model.Topic, error)
	FindByName(ctx context.Context, name string) (*model.Topic, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Topic, error)
	FindPage(ctx context.Context, query dto.ListTopicQuery) ([]model.Topic, int64, error)
	FindByUser(ctx context.Context, userID uint) ([]model.Topic, error)
	Save(ctx context.Context, topic *model.Topic) error
	SaveWithMembers(ctx context.Context, topic *model.Topic, users []model.User) error
	Delete(ctx context.Context, id uint) error
}

type topicRepository struct {
	db *gorm.DB
}

func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Omit("Users", "Templates").Create(topic).Error
}

func (r *topicRepository) CreateWithMembers(ctx context.Context, topic *model.Topic, users []model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Templates").Create(topic).Error; err != nil {
			return err
		}
		return tx.Model(topic).Association("Users").Replace(users)
	})
}

func (r *topicRepository) FindByID(ctx context.Context, id uint) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.WithContext(ctx).
		Preload("Users").
		Preload("Templates").
		First(&topic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindByName(ctx context.Context, name string) (*model.Topic, error) {
	var topic model.Topic
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error; err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Topic, error) {
	var topics []model.Topic
	if len(ids) == 0 {
		return topics, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) FindPage(ctx context.Context, query dto.ListTopicQuery) ([]model.Topic, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Topic{})

	if query.Name != "" {
		q = q.Where("name ILIKE ?", "%"+query.Name+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var topics []model.Topic
	order := query.Order(map[string]bool{"id": true, "name": true, "created_at": true}, "id")
	if err := q.Order(order).
		Limit(query.Limit()).
		Offset(query.Offset()).
		Find(&topics).Error; err != nil {
		return nil, 0, err
	}

	return topics, total, nil
}

func (r *topicRepository) FindByUser(ctx context.Context, userID uint) ([]model.Topic, error) {
	var topics []model.Topic
	if err := r.db.WithContext(ctx).
		Joins("JOIN users_topics ON users_topics.topic_id = topics.id").
		Where("users_topics.user_id = ?", userID).
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}

func (r *topicRepository) Save(ctx context.Context, topic *model.Topic) error {
	return r.db.WithContext(ctx).Omit("Users", "Templates").Save(topic).Error
}

// SaveWithMembers persists the topic and replaces its membership in one
// transaction.
func (r *topicRepository) SaveWithMembers(ctx context.Context, topic *model.Topic, users []model.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users", "Templates").Save(topic).Error; err != nil {
			return err
		}
		return tx.Model(topic).Association("Users").Replace(users)
	})
}

func (r *topicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Topic{}, "id = ?", id).Error
}
