package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
	"github.com/okothbrian/socialite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// One shared in-memory database per test, named after the test so
	// parallel tests do not see each other's tables.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, handle string) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Handle:   handle,
		FullName: "Test " + handle,
		Email:    handle + "@example.com",
		Password: "x",
		Role:     "user",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestChatService_GetOrCreateConversation_SeedsNewConversation(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, conv)

	var messages []models.Message
	require.NoError(t, db.Where("conversation_id = ?", conv.ID).Find(&messages).Error)
	require.Len(t, messages, 1, "a new conversation is never observable empty")
	assert.Equal(t, SeedMessageContent, messages[0].Content)
	assert.Equal(t, alice.ID, messages[0].SenderID)
	assert.Equal(t, bob.ID, messages[0].ReceiverID)
}

func TestChatService_GetOrCreateConversation_PairIsOrderIndependent(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	first, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	second, err := svc.GetOrCreateConversation(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChatService_GetOrCreateConversation_ConcurrentStartYieldsOne(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	const callers = 8
	ids := make([]uuid.UUID, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			a, b := alice.ID, bob.ID
			if i%2 == 1 {
				a, b = b, a
			}
			conv, err := svc.GetOrCreateConversation(a, b)
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = conv.ID
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
	}
	for _, id := range ids[1:] {
		assert.Equal(t, ids[0], id, "all racing callers must resolve the same conversation")
	}

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestChatService_GetOrCreateConversation_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.GetOrCreateConversation(alice.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestChatService_GetOrCreateConversation_SelfRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")

	_, err := svc.GetOrCreateConversation(alice.ID, alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrSelfConversation)
}

func TestChatService_FirstMessageScenario(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AppendMessage(conv.ID, alice.ID, bob.ID, "hello")
	require.NoError(t, err)

	messages, err := svc.Messages(conv.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, SeedMessageContent, messages[0].Content)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestChatService_Messages_MarksUnreadOnceIdempotently(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = svc.AppendMessage(conv.ID, alice.ID, bob.ID, "one")
	require.NoError(t, err)
	_, err = svc.AppendMessage(conv.ID, alice.ID, bob.ID, "two")
	require.NoError(t, err)

	unread := func() int64 {
		var n int64
		require.NoError(t, db.Model(&models.Message{}).
			Where("conversation_id = ? AND receiver_id = ? AND read = ?", conv.ID, bob.ID, false).
			Count(&n).Error)
		return n
	}
	require.EqualValues(t, 3, unread(), "seed plus two messages start unread")

	_, err = svc.Messages(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread(), "retrieval flips everything addressed to the receiver")

	// Alice's copy of the thread does not touch messages addressed to bob,
	// and re-reading is a no-op.
	_, err = svc.Messages(conv.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Messages(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread())
}

func TestChatService_Messages_NonParticipantForbidden(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	mallory := createUser(t, db, "mallory")

	conv, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = svc.Messages(conv.ID, mallory.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)

	_, err = svc.Messages(uuid.New(), alice.ID)
	assert.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestChatService_ListConversations(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	convBob, err := svc.GetOrCreateConversation(alice.ID, bob.ID)
	require.NoError(t, err)
	convCarol, err := svc.GetOrCreateConversation(alice.ID, carol.ID)
	require.NoError(t, err)

	// A message to an offline receiver is still durably retrievable, and
	// fresh activity moves that conversation to the top.
	_, err = svc.AppendMessage(convBob.ID, bob.ID, alice.ID, "ping")
	require.NoError(t, err)

	summaries, err := svc.ListConversations(alice.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, convBob.ID, summaries[0].Conversation.ID)
	assert.Equal(t, bob.ID, summaries[0].OtherParticipant.ID)
	require.NotNil(t, summaries[0].LastMessage)
	assert.Equal(t, "ping", summaries[0].LastMessage.Content)
	assert.EqualValues(t, 1, summaries[0].UnreadCount, "only the ping is addressed to alice; the seed went to bob")

	assert.Equal(t, convCarol.ID, summaries[1].Conversation.ID)
	assert.Equal(t, carol.ID, summaries[1].OtherParticipant.ID)
	assert.EqualValues(t, 0, summaries[1].UnreadCount, "alice initiated, the seed is addressed to carol")
}

func TestNotificationService_UnreadCountAndMarkAllRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(db)
	alice := createUser(t, db, "alice")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Create(alice.ID, models.NotificationTypeMessage, "new message"))
	}

	count, err := svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, svc.MarkAllRead(alice.ID))
	require.NoError(t, svc.MarkAllRead(alice.ID)) // idempotent

	count, err = svc.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	list, err := svc.List(alice.ID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
