package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/pkg/push"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces. They keep just enough state
// for service-level behavior tests.

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*model.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*model.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(user model.User) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
	}
	if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	u := user
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = r.nextID
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByIDs(_ context.Context, ids []uint) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uint, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *fakeUserRepo) FindPage(_ context.Context, _ dto.ListUserQuery) ([]model.User, int64, error) {
	users, _ := r.FindAll(context.Background())
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) FindByRefreshToken(_ context.Context, id uint, refreshToken string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok || user.RefreshToken != refreshToken {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) Save(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) SaveWithRoles(_ context.Context, user *model.User, roles []model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *user
	clone.Roles = roles
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateFields(_ context.Context, id uint, fields map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := fields["password"]; ok {
		user.Password = v.(string)
	}
	if v, ok := fields["refresh_token"]; ok {
		user.RefreshToken = v.(string)
	}
	if v, ok := fields["avatar_id"]; ok {
		id := v.(uint)
		user.AvatarID = &id
	}
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

type fakeRoleRepo struct {
	mu     sync.Mutex
	roles  map[uint]*model.Role
	nextID uint
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: map[uint]*model.Role{}, nextID: 1}
}

func (r *fakeRoleRepo) add(role model.Role) *model.Role {
	r.mu.Lock()
	defer r.mu.Unlock()
	if role.ID == 0 {
		role.ID = r.nextID
	}
	if role.ID >= r.nextID {
		r.nextID = role.ID + 1
	}
	clone := role
	r.roles[clone.ID] = &clone
	return &clone
}

func (r *fakeRoleRepo) Create(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role.ID = r.nextID
	r.nextID++
	clone := *role
	r.roles[role.ID] = &clone
	return nil
}

func (r *fakeRoleRepo) FindByID(_ context.Context, id uint) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *role
	return &clone, nil
}

func (r *fakeRoleRepo) FindByName(_ context.Context, name string) (*model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.roles {
		if role.Name == name {
			clone := *role
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRoleRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Role, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Role
	for _, id := range ids {
		if role, ok := r.roles[id]; ok {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) FindPage(_ context.Context, _ dto.ListRoleQuery) ([]model.Role, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Role
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRoleRepo) FindPermissions(_ context.Context, roleID uint) ([]model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[roleID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role.Permissions, nil
}

func (r *fakeRoleRepo) SaveWithMembers(_ context.Context, role *model.Role, users []model.User, permissions []model.Permission, replacePermissions bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *role
	clone.Users = users
	if replacePermissions {
		clone.Permissions = permissions
	} else if existing, ok := r.roles[role.ID]; ok {
		clone.Permissions = existing.Permissions
	}
	if clone.ID == 0 {
		clone.ID = r.nextID
		r.nextID++
		role.ID = clone.ID
	}
	r.roles[clone.ID] = &clone
	return nil
}

func (r *fakeRoleRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.roles)
}

type fakePermissionRepo struct {
	mu          sync.Mutex
	permissions map[uint]*model.Permission
	nextID      uint
}

func newFakePermissionRepo() *fakePermissionRepo {
	return &fakePermissionRepo{permissions: map[uint]*model.Permission{}, nextID: 1}
}

func (r *fakePermissionRepo) Create(_ context.Context, permission *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	permission.ID = r.nextID
	r.nextID++
	clone := *permission
	r.permissions[permission.ID] = &clone
	return nil
}

func (r *fakePermissionRepo) FindByID(_ context.Context, id uint) (*model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	permission, ok := r.permissions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *permission
	return &clone, nil
}

func (r *fakePermissionRepo) FindByName(_ context.Context, name string) (*model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, permission := range r.permissions {
		if permission.Name == name {
			clone := *permission
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePermissionRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Permission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Permission
	for _, id := range ids {
		if permission, ok := r.permissions[id]; ok {
			out = append(out, *permission)
		}
	}
	return out, nil
}

func (r *fakePermissionRepo) FindPage(_ context.Context, _ dto.ListPermissionQuery) ([]model.Permission, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Permission
	for _, permission := range r.permissions {
		out = append(out, *permission)
	}
	return out, int64(len(out)), nil
}

func (r *fakePermissionRepo) Save(_ context.Context, permission *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *permission
	r.permissions[permission.ID] = &clone
	return nil
}

func (r *fakePermissionRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.permissions, id)
	return nil
}

type fakeTopicRepo struct {
	mu     sync.Mutex
	topics map[uint]*model.Topic
	nextID uint
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{topics: map[uint]*model.Topic{}, nextID: 1}
}

func (r *fakeTopicRepo) add(topic model.Topic) *model.Topic {
	r.mu.Lock()
	defer r.mu.Unlock()
	if topic.ID == 0 {
		topic.ID = r.nextID
	}
	if topic.ID >= r.nextID {
		r.nextID = topic.ID + 1
	}
	clone := topic
	r.topics[clone.ID] = &clone
	return &clone
}

func (r *fakeTopicRepo) Create(_ context.Context, topic *model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic.ID = r.nextID
	r.nextID++
	clone := *topic
	r.topics[topic.ID] = &clone
	return nil
}

func (r *fakeTopicRepo) CreateWithMembers(_ context.Context, topic *model.Topic, users []model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic.ID = r.nextID
	r.nextID++
	clone := *topic
	clone.Users = users
	r.topics[topic.ID] = &clone
	return nil
}

func (r *fakeTopicRepo) FindByID(_ context.Context, id uint) (*model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	topic, ok := r.topics[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *topic
	return &clone, nil
}

func (r *fakeTopicRepo) FindByName(_ context.Context, name string) (*model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, topic := range r.topics {
		if topic.Name == name {
			clone := *topic
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTopicRepo) FindByIDs(_ context.Context, ids []uint) ([]model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Topic
	for _, id := range ids {
		if topic, ok := r.topics[id]; ok {
			out = append(out, *topic)
		}
	}
	return out, nil
}

func (r *fakeTopicRepo) FindPage(_ context.Context, _ dto.ListTopicQuery) ([]model.Topic, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Topic
	for _, topic := range r.topics {
		out = append(out, *topic)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTopicRepo) FindByUser(_ context.Context, userID uint) ([]model.Topic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Topic
	for _, topic := range r.topics {
		for _, user := range topic.Users {
			if user.ID == userID {
				out = append(out, *topic)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeTopicRepo) Save(_ context.Context, topic *model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *topic
	r.topics[topic.ID] = &clone
	return nil
}

func (r *fakeTopicRepo) SaveWithMembers(_ context.Context, topic *model.Topic, users []model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *topic
	clone.Users = users
	r.topics[topic.ID] = &clone
	return nil
}

func (r *fakeTopicRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.topics, id)
	return nil
}

func (r *fakeTopicRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics)
}

type fakeTemplateRepo struct {
	mu        sync.Mutex
	templates map[uint]*model.Template
	nextID    uint
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[uint]*model.Template{}, nextID: 1}
}

func (r *fakeTemplateRepo) add(template model.Template) *model.Template {
	r.mu.Lock()
	defer r.mu.Unlock()
	if template.ID == 0 {
		template.ID = r.nextID
	}
	if template.ID >= r.nextID {
		r.nextID = template.ID + 1
	}
	clone := template
	r.templates[clone.ID] = &clone
	return &clone
}

func (r *fakeTemplateRepo) CreateWithTargets(_ context.Context, template *model.Template, users []model.User, topics []model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	template.ID = r.nextID
	r.nextID++
	clone := *template
	clone.Users = users
	clone.Topics = topics
	r.templates[template.ID] = &clone
	return nil
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id uint) (*model.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *template
	return &clone, nil
}

func (r *fakeTemplateRepo) FindPage(_ context.Context, _ dto.ListTemplateQuery) ([]model.Template, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Template
	for _, template := range r.templates {
		out = append(out, *template)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTemplateRepo) SaveWithTargets(_ context.Context, template *model.Template, users []model.User, topics []model.Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *template
	clone.Users = users
	clone.Topics = topics
	r.templates[template.ID] = &clone
	return nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.templates, id)
	return nil
}

type fakeNotificationRepo struct {
	mu     sync.Mutex
	rows   []model.Notification
	nextID uint
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{nextID: 1}
}

func (r *fakeNotificationRepo) Create(_ context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = r.nextID
	r.nextID++
	r.rows = append(r.rows, *notification)
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(_ context.Context, notifications []model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range notifications {
		notifications[i].ID = r.nextID
		r.nextID++
		r.rows = append(r.rows, notifications[i])
	}
	return nil
}

func (r *fakeNotificationRepo) FindOneByUser(_ context.Context, id, userID uint) (*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.ID == id && row.UserID == userID {
			clone := row
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) FindPageByUser(_ context.Context, userID uint, _ dto.ListNotificationQuery) ([]model.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeNotificationRepo) Save(_ context.Context, notification *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].ID == notification.ID {
			r.rows[i] = *notification
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].UserID == userID {
			r.rows[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.rows[:0]
	for _, row := range r.rows {
		if row.ID != id || row.UserID != userID {
			out = append(out, row)
		}
	}
	r.rows = out
	return nil
}

func (r *fakeNotificationRepo) DeleteByIDs(_ context.Context, ids []uint, userID uint) error {
	drop := map[uint]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.rows[:0]
	for _, row := range r.rows {
		if !(drop[row.ID] && row.UserID == userID) {
			out = append(out, row)
		}
	}
	r.rows = out
	return nil
}

func (r *fakeNotificationRepo) DeleteAllByUser(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.rows[:0]
	for _, row := range r.rows {
		if row.UserID != userID {
			out = append(out, row)
		}
	}
	r.rows = out
	return nil
}

func (r *fakeNotificationRepo) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	out := r.rows[:0]
	for _, row := range r.rows {
		if row.IsRead && row.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		out = append(out, row)
	}
	r.rows = out
	return deleted, nil
}

func (r *fakeNotificationRepo) all() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.rows...)
}

type fakeDeviceRepo struct {
	mu     sync.Mutex
	tokens map[uint][]string
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{tokens: map[uint][]string{}}
}

func (r *fakeDeviceRepo) Create(_ context.Context, device *model.Device) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[device.UserID] = append(r.tokens[device.UserID], device.FcmToken)
	return nil
}

func (r *fakeDeviceRepo) FindTokensByUser(_ context.Context, userID uint) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tokens[userID]...), nil
}

func (r *fakeDeviceRepo) DeleteByToken(_ context.Context, token string, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.tokens[userID][:0]
	for _, t := range r.tokens[userID] {
		if t != token {
			out = append(out, t)
		}
	}
	r.tokens[userID] = out
	return nil
}

// topicOp records a subscribe or unsubscribe call against the push transport.
type topicOp struct {
	Tokens []string
	Topic  string
}

type fakeTransport struct {
	mu           sync.Mutex
	verifyResult bool

	sent         []push.Notification
	multicasts   [][]string
	topicSends   []string
	subscribes   []topicOp
	unsubscribes []topicOp
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{verifyResult: true}
}

func (t *fakeTransport) Verify(_ context.Context, _ string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.verifyResult
}

func (t *fakeTransport) Send(_ context.Context, _ string, n push.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, n)
	return nil
}

func (t *fakeTransport) SendMulticast(_ context.Context, tokens []string, n push.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, n)
	t.multicasts = append(t.multicasts, append([]string(nil), tokens...))
	return nil
}

func (t *fakeTransport) SendToTopic(_ context.Context, topic string, n push.Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, n)
	t.topicSends = append(t.topicSends, topic)
	return nil
}

func (t *fakeTransport) SubscribeToTopic(_ context.Context, tokens []string, topic string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribes = append(t.subscribes, topicOp{Tokens: append([]string(nil), tokens...), Topic: topic})
	return nil
}

func (t *fakeTransport) UnsubscribeFromTopic(_ context.Context, tokens []string, topic string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unsubscribes = append(t.unsubscribes, topicOp{Tokens: append([]string(nil), tokens...), Topic: topic})
	return nil
}

func (t *fakeTransport) subscribedTokens(topic string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, op := range t.subscribes {
		if op.Topic == topic {
			out = append(out, op.Tokens...)
		}
	}
	sort.Strings(out)
	return out
}

func (t *fakeTransport) unsubscribedTokens(topic string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for _, op := range t.unsubscribes {
		if op.Topic == topic {
			out = append(out, op.Tokens...)
		}
	}
	sort.Strings(out)
	return out
}
