package chat

import (
	"testing"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomsFixture struct {
	store   *memStore
	events  *fakeEvents
	prov    *fakeProvisioner
	billing *fakeBilling
	manager *RoomManager
}

func newRoomsFixture(cfg ManagerConfig) *roomsFixture {
	f := &roomsFixture{
		store:   newMemStore(),
		events:  newFakeEvents(),
		prov:    newFakeProvisioner(),
		billing: &fakeBilling{},
	}
	f.manager = NewRoomManager(f.store, f.events, f.prov, NewBroadcaster(), f.billing, newRoomLocks(), cfg)
	return f
}

func (f *roomsFixture) newEvent(capacity int) uuid.UUID {
	eventID := uuid.New()
	f.events.addEvent(eventID, uuid.New(), capacity, time.Now().Add(time.Hour))
	return eventID
}

func TestCreateRequiresChatEnabled(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())

	_, err := f.manager.Create(uuid.New(), 0)
	assert.ErrorIs(t, err, ErrChatNotEnabled)
}

func TestCreateRejectsSecondRoomForEvent(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.RoomCreating, room.Status)

	_, err = f.manager.Create(eventID, 0)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	f.manager.AwaitProvisioning(room.ID)
}

func TestCreateUsesEventCapacity(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(35)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	assert.Equal(t, 35, room.Capacity)

	f.manager.AwaitProvisioning(room.ID)
}

func TestProvisioningActivatesRoom(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)

	f.manager.AwaitProvisioning(room.ID)

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, got.Status)
	assert.NotEmpty(t, got.RuntimeHandle)
	assert.NotEmpty(t, got.Endpoint)
	assert.NotNil(t, got.StartedAt)
}

func TestProvisioningRetriesTransientFailures(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	f.prov.failures = 2
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)

	f.manager.AwaitProvisioning(room.ID)

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomActive, got.Status)
	assert.Equal(t, 3, f.prov.startCount())
}

func TestProvisioningExhaustionClosesRoom(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	f.prov.failures = 100
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)

	f.manager.AwaitProvisioning(room.ID)

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, got.Status)
	assert.NotEmpty(t, got.FailureReason)
	assert.NotNil(t, got.EndedAt)
	assert.Equal(t, testManagerConfig().ProvisionRetries, f.prov.startCount())
}

func TestActivateRequiresCreatingState(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	f.manager.AwaitProvisioning(room.ID)

	err = f.manager.Activate(room.ID, "handle", "endpoint")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCloseStopsRuntimeAndBills(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	ownerID := uuid.New()
	eventID := uuid.New()
	f.events.addEvent(eventID, ownerID, 20, time.Now().Add(time.Hour))

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	f.manager.AwaitProvisioning(room.ID)

	active, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	handle := active.RuntimeHandle

	require.NoError(t, f.manager.Close(room.ID))

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, got.Status)
	assert.NotNil(t, got.EndedAt)
	assert.Empty(t, got.Endpoint)
	assert.Empty(t, got.RuntimeHandle)

	assert.Equal(t, []string{handle}, f.prov.stoppedHandles())

	charges := f.billing.all()
	require.Len(t, charges, 1)
	assert.Equal(t, ownerID, charges[0].ownerID)
	assert.Equal(t, room.ID, charges[0].roomID)
	assert.EqualValues(t, 1, charges[0].units)
	assert.Equal(t, testManagerConfig().UnitRate, charges[0].amount)
}

func TestCloseIsIdempotent(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	f.manager.AwaitProvisioning(room.ID)

	require.NoError(t, f.manager.Close(room.ID))
	require.NoError(t, f.manager.Close(room.ID))

	// Рантайм остановлен ровно один раз, счет выставлен один раз
	assert.Len(t, f.prov.stoppedHandles(), 1)
	assert.Len(t, f.billing.all(), 1)
}

func TestCloseWaitsForInflightProvisioning(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	f.prov.delay = 30 * time.Millisecond
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)

	// Закрытие стартует, пока рантайм еще поднимается
	require.NoError(t, f.manager.Close(room.ID))

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, got.Status)

	// Останов пришелся на реальный хэндл, а не на пустую строку
	stopped := f.prov.stoppedHandles()
	require.Len(t, stopped, 1)
	assert.NotEmpty(t, stopped[0])
}

func TestFinishCloseRequiresClosingState(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())
	eventID := f.newEvent(20)

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	f.manager.AwaitProvisioning(room.ID)

	err = f.manager.FinishClose(room.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSweepFailsStaleCreatingRooms(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())

	// Комната, зависшая в CREATING без живого провижининга (например,
	// после рестарта процесса)
	room := &models.ChatRoom{
		EventID:   uuid.New(),
		Status:    models.RoomCreating,
		Capacity:  10,
		CreatedAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, f.store.CreateRoom(room))

	f.manager.sweep()

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, got.Status)
	assert.NotEmpty(t, got.FailureReason)
}

func TestSweepClosesRoomsOfEndedEvents(t *testing.T) {
	f := newRoomsFixture(testManagerConfig())

	eventID := uuid.New()
	f.events.addEvent(eventID, uuid.New(), 20, time.Now().Add(20*time.Millisecond))

	room, err := f.manager.Create(eventID, 0)
	require.NoError(t, err)
	f.manager.AwaitProvisioning(room.ID)

	time.Sleep(30 * time.Millisecond)
	f.manager.sweep()

	got, err := f.manager.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomClosed, got.Status)
}
