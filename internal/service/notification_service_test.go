package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vietlabs/base-backend/internal/dto"
	"github.com/vietlabs/base-backend/internal/model"
	"github.com/vietlabs/base-backend/pkg/apperror"
)

type notificationFixture struct {
	svc              NotificationService
	topicRepo        *fakeTopicRepo
	templateRepo     *fakeTemplateRepo
	notificationRepo *fakeNotificationRepo
	deviceRepo       *fakeDeviceRepo
	userRepo         *fakeUserRepo
	transport        *fakeTransport
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	f := &notificationFixture{
		topicRepo:        newFakeTopicRepo(),
		templateRepo:     newFakeTemplateRepo(),
		notificationRepo: newFakeNotificationRepo(),
		deviceRepo:       newFakeDeviceRepo(),
		userRepo:         newFakeUserRepo(),
		transport:        newFakeTransport(),
	}
	f.svc = NewNotificationService(
		f.topicRepo, f.templateRepo, f.notificationRepo,
		f.deviceRepo, f.userRepo, f.transport, newTranslator(t),
	)
	return f
}

func (f *notificationFixture) addUserWithToken(email, token string) *model.User {
	user := f.userRepo.add(model.User{Email: email, IsActive: true})
	if token != "" {
		f.deviceRepo.tokens[user.ID] = []string{token}
	}
	return user
}

func TestSeedTopicsIdempotent(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SeedTopics(ctx))
	require.NoError(t, f.svc.SeedTopics(ctx))

	assert.Equal(t, len(model.SystemTopics), f.topicRepo.count())

	all, err := f.topicRepo.FindByName(ctx, model.TopicAll)
	require.NoError(t, err)
	assert.False(t, all.Deleteable)
}

func TestCreateTopicSubscribesMembers(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	alice := f.addUserWithToken("alice@example.com", "tok-alice")
	bob := f.addUserWithToken("bob@example.com", "tok-bob")

	topic, err := f.svc.CreateTopic(ctx, dto.CreateTopicRequest{
		Name:    "release news",
		UserIDs: []uint{alice.ID, bob.ID},
	}, "en")
	require.NoError(t, err)

	assert.Equal(t, "RELEASENEWS", topic.Name)
	assert.True(t, topic.Deleteable)
	assert.Equal(t, []string{"tok-alice", "tok-bob"}, f.transport.subscribedTokens("RELEASENEWS"))
}

func TestCreateTopicReservedName(t *testing.T) {
	f := newNotificationFixture(t)

	_, err := f.svc.CreateTopic(context.Background(), dto.CreateTopicRequest{Name: "all"}, "en")
	assert.True(t, errors.Is(err, apperror.ErrNotAcceptable))
}

func TestUpdateTopicMembershipDiff(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	u1 := f.addUserWithToken("u1@example.com", "tok-1")
	u2 := f.addUserWithToken("u2@example.com", "tok-2")
	u3 := f.addUserWithToken("u3@example.com", "tok-3")

	topic := f.topicRepo.add(model.Topic{
		Name:       "NEWS",
		Deleteable: true,
		Users:      []model.User{{ID: u1.ID}, {ID: u2.ID}},
	})

	// {1,2} -> {2,3}: only the diff is touched.
	_, err := f.svc.UpdateTopic(ctx, topic.ID, dto.UpdateTopicRequest{
		Name:    "news",
		UserIDs: []uint{u2.ID, u3.ID},
	}, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-1"}, f.transport.unsubscribedTokens("NEWS"))
	assert.Equal(t, []string{"tok-3"}, f.transport.subscribedTokens("NEWS"))

	saved, err := f.topicRepo.FindByID(ctx, topic.ID)
	require.NoError(t, err)
	memberIDs := make([]uint, 0, len(saved.Users))
	for _, member := range saved.Users {
		memberIDs = append(memberIDs, member.ID)
	}
	assert.ElementsMatch(t, []uint{u2.ID, u3.ID}, memberIDs)
}

func TestUpdateTopicRenameMovesWholeMembership(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	u1 := f.addUserWithToken("u1@example.com", "tok-1")
	u2 := f.addUserWithToken("u2@example.com", "tok-2")

	topic := f.topicRepo.add(model.Topic{
		Name:       "NEWS",
		Deleteable: true,
		Users:      []model.User{{ID: u1.ID}, {ID: u2.ID}},
	})

	_, err := f.svc.UpdateTopic(ctx, topic.ID, dto.UpdateTopicRequest{
		Name:    "announcements",
		UserIDs: []uint{u1.ID, u2.ID},
	}, "en")
	require.NoError(t, err)

	assert.Equal(t, []string{"tok-1", "tok-2"}, f.transport.unsubscribedTokens("NEWS"))
	assert.Equal(t, []string{"tok-1", "tok-2"}, f.transport.subscribedTokens("ANNOUNCEMENTS"))
}

func TestUpdateTopicRenameToReservedName(t *testing.T) {
	f := newNotificationFixture(t)

	topic := f.topicRepo.add(model.Topic{Name: "NEWS", Deleteable: true})

	_, err := f.svc.UpdateTopic(context.Background(), topic.ID, dto.UpdateTopicRequest{Name: "all"}, "en")
	assert.True(t, errors.Is(err, apperror.ErrNotAcceptable))
}

func TestUpdateSystemTopicRename(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.svc.SeedTopics(context.Background()))

	all, err := f.topicRepo.FindByName(context.Background(), model.TopicAll)
	require.NoError(t, err)

	_, err = f.svc.UpdateTopic(context.Background(), all.ID, dto.UpdateTopicRequest{Name: "everyone"}, "en")
	assert.True(t, errors.Is(err, apperror.ErrNotAcceptable))
}

func TestUpdateAllTopicKeepsImplicitMembership(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SeedTopics(ctx))

	u1 := f.addUserWithToken("u1@example.com", "tok-1")

	all, err := f.topicRepo.FindByName(ctx, model.TopicAll)
	require.NoError(t, err)

	// Member lists sent for ALL are ignored: every device is already in it.
	updated, err := f.svc.UpdateTopic(ctx, all.ID, dto.UpdateTopicRequest{
		Name:        model.TopicAll,
		Description: "every device",
		UserIDs:     []uint{u1.ID},
	}, "en")
	require.NoError(t, err)
	assert.Equal(t, "every device", updated.Description)
	assert.Empty(t, updated.Users)

	_, err = f.svc.UpdateTopic(ctx, all.ID, dto.UpdateTopicRequest{Name: model.TopicAll}, "en")
	require.NoError(t, err)

	saved, err := f.topicRepo.FindByID(ctx, all.ID)
	require.NoError(t, err)
	assert.Empty(t, saved.Users)
	assert.Empty(t, f.transport.subscribes)
	assert.Empty(t, f.transport.unsubscribes)
}

func TestRemoveTopicUnsubscribesMembers(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	u1 := f.addUserWithToken("u1@example.com", "tok-1")
	topic := f.topicRepo.add(model.Topic{
		Name:       "NEWS",
		Deleteable: true,
		Users:      []model.User{{ID: u1.ID}},
	})

	require.NoError(t, f.svc.RemoveTopic(ctx, topic.ID, "en"))

	assert.Equal(t, []string{"tok-1"}, f.transport.unsubscribedTokens("NEWS"))
	_, err := f.topicRepo.FindByID(ctx, topic.ID)
	assert.Error(t, err)
}

func TestRemoveSystemTopicForbidden(t *testing.T) {
	f := newNotificationFixture(t)
	require.NoError(t, f.svc.SeedTopics(context.Background()))

	all, err := f.topicRepo.FindByName(context.Background(), model.TopicAll)
	require.NoError(t, err)

	err = f.svc.RemoveTopic(context.Background(), all.ID, "en")
	assert.True(t, errors.Is(err, apperror.ErrForbidden))
	assert.Empty(t, f.transport.unsubscribes)

	_, err = f.topicRepo.FindByID(context.Background(), all.ID)
	assert.NoError(t, err)
}

func TestSendUserTemplate(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	alice := f.addUserWithToken("alice@example.com", "tok-alice")
	bob := f.addUserWithToken("bob@example.com", "")

	template := f.templateRepo.add(model.Template{
		Title:   "Maintenance",
		Content: "Scheduled downtime tonight",
		Type:    model.TemplateTypeUser,
		Users:   []model.User{{ID: alice.ID}, {ID: bob.ID}},
	})

	require.NoError(t, f.svc.Send(ctx, template.ID, "en"))

	// Only alice has a device, so one multicast with her token.
	require.Len(t, f.transport.multicasts, 1)
	assert.Equal(t, []string{"tok-alice"}, f.transport.multicasts[0])

	// Both recipients still get an inbox row.
	rows := f.notificationRepo.all()
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "Maintenance", row.Title)
		assert.False(t, row.IsRead)
	}
}

func TestSendUserTemplateNoTokensNoMulticast(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	template := f.templateRepo.add(model.Template{
		Title: "Hello",
		Type:  model.TemplateTypeUser,
	})

	require.NoError(t, f.svc.Send(ctx, template.ID, "en"))

	assert.Empty(t, f.transport.multicasts)
	assert.Empty(t, f.notificationRepo.all())
}

func TestSendTopicTemplateAllExpandsToEveryUser(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SeedTopics(ctx))

	u1 := f.addUserWithToken("u1@example.com", "tok-1")
	u2 := f.addUserWithToken("u2@example.com", "tok-2")

	all, err := f.topicRepo.FindByName(ctx, model.TopicAll)
	require.NoError(t, err)

	template := f.templateRepo.add(model.Template{
		Title:  "Broadcast",
		Type:   model.TemplateTypeTopic,
		Topics: []model.Topic{*all},
	})

	require.NoError(t, f.svc.Send(ctx, template.ID, "en"))

	assert.Equal(t, []string{model.TopicAll}, f.transport.topicSends)

	rows := f.notificationRepo.all()
	require.Len(t, rows, 2)
	got := map[uint]bool{}
	for _, row := range rows {
		got[row.UserID] = true
	}
	assert.True(t, got[u1.ID])
	assert.True(t, got[u2.ID])
}

func TestSendTopicTemplateDeduplicatesRecipients(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	u1 := f.addUserWithToken("u1@example.com", "tok-1")
	u2 := f.addUserWithToken("u2@example.com", "tok-2")

	news := f.topicRepo.add(model.Topic{Name: "NEWS", Deleteable: true, Users: []model.User{{ID: u1.ID}, {ID: u2.ID}}})
	ops := f.topicRepo.add(model.Topic{Name: "OPS", Deleteable: true, Users: []model.User{{ID: u2.ID}}})

	template := f.templateRepo.add(model.Template{
		Title:  "Weekly digest",
		Type:   model.TemplateTypeTopic,
		Topics: []model.Topic{*news, *ops},
	})

	require.NoError(t, f.svc.Send(ctx, template.ID, "en"))

	assert.ElementsMatch(t, []string{"NEWS", "OPS"}, f.transport.topicSends)

	// u2 belongs to both topics but gets a single row.
	rows := f.notificationRepo.all()
	assert.Len(t, rows, 2)
}

func TestSubscribeDeviceJoinsAllAndUserTopics(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	user := f.userRepo.add(model.User{Email: "a@example.com", IsActive: true})
	f.topicRepo.add(model.Topic{Name: "NEWS", Deleteable: true, Users: []model.User{{ID: user.ID}}})

	require.NoError(t, f.svc.SubscribeDevice(ctx, user, "tok-new"))

	tokens, err := f.deviceRepo.FindTokensByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-new"}, tokens)

	assert.Equal(t, []string{"tok-new"}, f.transport.subscribedTokens(model.TopicAll))
	assert.Equal(t, []string{"tok-new"}, f.transport.subscribedTokens("NEWS"))
}

func TestSubscribeDeviceInvalidTokenKeepsDeviceRow(t *testing.T) {
	f := newNotificationFixture(t)
	f.transport.verifyResult = false

	user := f.userRepo.add(model.User{Email: "a@example.com", IsActive: true})

	require.NoError(t, f.svc.SubscribeDevice(context.Background(), user, "bad-token"))

	tokens, _ := f.deviceRepo.FindTokensByUser(context.Background(), user.ID)
	assert.Equal(t, []string{"bad-token"}, tokens)
	assert.Empty(t, f.transport.subscribes)
}

func TestUnsubscribeDevice(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	user := f.addUserWithToken("a@example.com", "tok-1")
	f.topicRepo.add(model.Topic{Name: "NEWS", Deleteable: true, Users: []model.User{{ID: user.ID}}})

	require.NoError(t, f.svc.UnsubscribeDevice(ctx, user, "tok-1"))

	tokens, _ := f.deviceRepo.FindTokensByUser(ctx, user.ID)
	assert.Empty(t, tokens)
	assert.Equal(t, []string{"tok-1"}, f.transport.unsubscribedTokens(model.TopicAll))
	assert.Equal(t, []string{"tok-1"}, f.transport.unsubscribedTokens("NEWS"))
}

func TestUnsubscribeDeviceInvalidTokenStillDropsRow(t *testing.T) {
	f := newNotificationFixture(t)
	f.transport.verifyResult = false
	ctx := context.Background()

	user := f.addUserWithToken("a@example.com", "tok-1")
	f.topicRepo.add(model.Topic{Name: "NEWS", Deleteable: true, Users: []model.User{{ID: user.ID}}})

	require.NoError(t, f.svc.UnsubscribeDevice(ctx, user, "tok-1"))

	tokens, _ := f.deviceRepo.FindTokensByUser(ctx, user.ID)
	assert.Empty(t, tokens)
	assert.Empty(t, f.transport.unsubscribes)
}

func TestCreateNotice(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	user := f.addUserWithToken("a@example.com", "tok-1")

	notification, err := f.svc.CreateNotice(ctx, dto.CreateNotificationRequest{
		Title:   "maintenance window",
		Content: "back at 06:00",
	}, user)
	require.NoError(t, err)
	assert.NotZero(t, notification.ID)
	assert.Equal(t, user.ID, notification.UserID)
	assert.False(t, notification.IsRead)

	list, err := f.svc.FindByUser(ctx, user.ID, dto.ListNotificationQuery{})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "maintenance window", list.Data[0].Title)

	// A direct notice is stored only; nothing goes through FCM.
	assert.Empty(t, f.transport.sent)
	assert.Empty(t, f.transport.multicasts)
	assert.Empty(t, f.transport.topicSends)
}

func TestNotificationInboxScoping(t *testing.T) {
	f := newNotificationFixture(t)
	ctx := context.Background()

	require.NoError(t, f.notificationRepo.CreateBatch(ctx, []model.Notification{
		{Title: "one", UserID: 1},
		{Title: "two", UserID: 2},
	}))

	// A user cannot read another user's notification.
	_, err := f.svc.FindOneByUser(ctx, 1, 2, "en")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	notification, err := f.svc.MarkRead(ctx, 1, 1, "en")
	require.NoError(t, err)
	assert.True(t, notification.IsRead)
}
