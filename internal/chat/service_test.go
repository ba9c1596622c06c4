package chat

import (
	"sync"
	"testing"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	store   *memStore
	events  *fakeEvents
	users   *fakeUsers
	prov    *fakeProvisioner
	billing *fakeBilling
	svc     *Service
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		store:   newMemStore(),
		events:  newFakeEvents(),
		users:   newFakeUsers(),
		prov:    newFakeProvisioner(),
		billing: &fakeBilling{},
	}
	f.svc = NewService(f.store, f.events, f.users, f.prov, f.billing, testManagerConfig())
	return f
}

// activeRoomID создает комнату и дожидается ее активации
func (f *serviceFixture) activeRoomID(t *testing.T, capacity int) uuid.UUID {
	t.Helper()

	eventID := uuid.New()
	f.events.addEvent(eventID, uuid.New(), capacity, time.Now().Add(time.Hour))

	room, err := f.svc.Rooms.Create(eventID, 0)
	require.NoError(t, err)
	f.svc.Rooms.AwaitProvisioning(room.ID)

	got, err := f.svc.Rooms.Get(room.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoomActive, got.Status)
	return room.ID
}

func TestSendRequiresActiveRoom(t *testing.T) {
	f := newServiceFixture(t)
	f.prov.delay = 50 * time.Millisecond

	eventID := uuid.New()
	f.events.addEvent(eventID, uuid.New(), 10, time.Now().Add(time.Hour))

	room, err := f.svc.Rooms.Create(eventID, 0)
	require.NoError(t, err)

	// Комната еще в CREATING
	_, err = f.svc.Send(room.ID, uuid.New(), models.MessageChat, "hello")
	assert.ErrorIs(t, err, ErrRoomNotActive)

	f.svc.Rooms.AwaitProvisioning(room.ID)
}

func TestSendRequiresMembership(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	_, err := f.svc.Send(roomID, uuid.New(), models.MessageChat, "hello")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendAfterLeaveForbidden(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	userID := uuid.New()
	_, err := f.svc.Join(roomID, userID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Leave(roomID, userID))

	_, err = f.svc.Send(roomID, userID, models.MessageChat, "hello")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSendDeliversToSubscribers(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	sender, listener := uuid.New(), uuid.New()
	_, err := f.svc.Join(roomID, sender)
	require.NoError(t, err)
	_, err = f.svc.Join(roomID, listener)
	require.NoError(t, err)

	ch := f.svc.Broadcast.Subscribe(roomID, listener)

	sent, err := f.svc.Send(roomID, sender, models.MessageChat, "hello room")
	require.NoError(t, err)

	got := recvOne(t, ch)
	assert.Equal(t, sent.ID, got.ID)
	assert.Equal(t, sent.Seq, got.Seq)
	assert.Equal(t, "hello room", got.Content)
}

func TestJoinAnnouncementIsPersistedAndBroadcast(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	first := uuid.New()
	_, err := f.svc.Join(roomID, first)
	require.NoError(t, err)

	ch := f.svc.Broadcast.Subscribe(roomID, first)

	second := uuid.New()
	f.users.names[second] = "busker"
	_, err = f.svc.Join(roomID, second)
	require.NoError(t, err)

	got := recvOne(t, ch)
	assert.Equal(t, models.MessageJoin, got.Type)
	assert.Contains(t, got.Content, "busker")
	assert.Contains(t, got.Content, "joined")

	// Объявление попало и в журнал
	count, err := f.svc.Messages.CountVisible(roomID)
	require.NoError(t, err)
	assert.Positive(t, count)
}

// Объявления о входе публикуются под той же блокировкой, что и Send:
// подписчик не должен видеть больший номер раньше меньшего
func TestAnnouncementsOrderedWithConcurrentSends(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 50)

	sender, watcher := uuid.New(), uuid.New()
	_, err := f.svc.Join(roomID, sender)
	require.NoError(t, err)
	_, err = f.svc.Join(roomID, watcher)
	require.NoError(t, err)

	ch := f.svc.Broadcast.Subscribe(roomID, watcher)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Join(roomID, uuid.New())
		}()
		go func() {
			defer wg.Done()
			_, _ = f.svc.Send(roomID, sender, models.MessageChat, "m")
		}()
	}
	wg.Wait()

	var lastSeq int64
	for {
		select {
		case msg := <-ch:
			assert.Greater(t, msg.Seq, lastSeq)
			lastSeq = msg.Seq
		default:
			require.Positive(t, lastSeq)
			return
		}
	}
}

func TestSequenceMatchesSendOrder(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	userID := uuid.New()
	_, err := f.svc.Join(roomID, userID)
	require.NoError(t, err)

	var lastSeq int64
	for i := 0; i < 5; i++ {
		msg, serr := f.svc.Send(roomID, userID, models.MessageChat, "m")
		require.NoError(t, serr)
		assert.Greater(t, msg.Seq, lastSeq)
		lastSeq = msg.Seq
	}
}

func TestPaginationWalksHistoryNewestFirst(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	userID := uuid.New()
	_, err := f.svc.Join(roomID, userID)
	require.NoError(t, err)

	// JOIN-объявление уже заняло seq 1
	for i := 0; i < 5; i++ {
		_, serr := f.svc.Send(roomID, userID, models.MessageChat, "m")
		require.NoError(t, serr)
	}

	page1, next, err := f.svc.Messages.Page(roomID, 0, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	assert.EqualValues(t, 6, page1[0].Seq)
	assert.EqualValues(t, 4, page1[2].Seq)
	assert.EqualValues(t, 4, next)

	page2, next, err := f.svc.Messages.Page(roomID, next, 3)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	assert.EqualValues(t, 3, page2[0].Seq)
	assert.EqualValues(t, 1, page2[2].Seq)

	if next != 0 {
		tail, tailNext, terr := f.svc.Messages.Page(roomID, next, 3)
		require.NoError(t, terr)
		assert.Empty(t, tail)
		assert.EqualValues(t, 0, tailNext)
	}
}

func TestSoftDeleteHidesMessage(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	author, stranger := uuid.New(), uuid.New()
	_, err := f.svc.Join(roomID, author)
	require.NoError(t, err)

	msg, err := f.svc.Send(roomID, author, models.MessageChat, "to be removed")
	require.NoError(t, err)

	// Чужое сообщение удалить нельзя
	err = f.svc.Messages.SoftDelete(msg.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.svc.Messages.SoftDelete(msg.ID, author))
	// Повторное удаление — no-op
	require.NoError(t, f.svc.Messages.SoftDelete(msg.ID, author))

	page, _, err := f.svc.Messages.Page(roomID, 0, 50)
	require.NoError(t, err)
	for _, m := range page {
		assert.NotEqual(t, msg.ID, m.ID)
	}
}

func TestLeaveUnsubscribes(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	userID := uuid.New()
	_, err := f.svc.Join(roomID, userID)
	require.NoError(t, err)

	ch := f.svc.Broadcast.Subscribe(roomID, userID)
	require.NoError(t, f.svc.Leave(roomID, userID))

	// Канал закрыт после выхода; буферизованные сообщения дочитываются
	for {
		if _, ok := <-ch; !ok {
			break
		}
	}
	assert.Equal(t, 0, f.svc.Broadcast.Subscribers(roomID))
}

func TestCloseRoomTerminatesSubscriptions(t *testing.T) {
	f := newServiceFixture(t)
	roomID := f.activeRoomID(t, 10)

	userID := uuid.New()
	_, err := f.svc.Join(roomID, userID)
	require.NoError(t, err)

	ch := f.svc.Broadcast.Subscribe(roomID, userID)

	require.NoError(t, f.svc.Rooms.Close(roomID))

	// Последнее доставленное — системное уведомление о закрытии
	var last models.ChatMessage
	for msg := range ch {
		last = msg
	}
	assert.Equal(t, models.MessageSystem, last.Type)

	_, err = f.svc.Send(roomID, userID, models.MessageChat, "late")
	assert.ErrorIs(t, err, ErrRoomNotActive)
}
