package chat

import (
	"testing"
	"time"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatMsg(roomID uuid.UUID, seq int64) models.ChatMessage {
	return models.ChatMessage{
		ID:      uuid.New(),
		RoomID:  roomID,
		Seq:     seq,
		Type:    models.MessageChat,
		Content: "msg",
	}
}

func recvOne(t *testing.T, ch <-chan models.ChatMessage) models.ChatMessage {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return models.ChatMessage{}
	}
}

func TestPublishPreservesOrder(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()

	ch := b.Subscribe(roomID, uuid.New())

	for seq := int64(1); seq <= 5; seq++ {
		b.Publish(roomID, chatMsg(roomID, seq))
	}

	for seq := int64(1); seq <= 5; seq++ {
		assert.Equal(t, seq, recvOne(t, ch).Seq)
	}
}

func TestSlowSubscriberDropsOldest(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()

	slow := b.Subscribe(roomID, uuid.New())

	// Никто не читает: буфер переполняется, старое вытесняется
	total := int64(subscriberBuffer + 10)
	for seq := int64(1); seq <= total; seq++ {
		b.Publish(roomID, chatMsg(roomID, seq))
	}

	assert.EqualValues(t, 10, b.Dropped())

	// Первым читается самое старое из уцелевших
	assert.EqualValues(t, 11, recvOne(t, slow).Seq)
}

func TestSlowSubscriberDoesNotAffectOthers(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()

	slow := b.Subscribe(roomID, uuid.New())
	fastUser := uuid.New()
	fast := b.Subscribe(roomID, fastUser)

	done := make(chan []int64)
	go func() {
		var got []int64
		for msg := range fast {
			got = append(got, msg.Seq)
			if len(got) == subscriberBuffer+10 {
				break
			}
		}
		done <- got
	}()

	total := int64(subscriberBuffer + 10)
	for seq := int64(1); seq <= total; seq++ {
		b.Publish(roomID, chatMsg(roomID, seq))
	}

	got := <-done
	require.Len(t, got, subscriberBuffer+10)
	for i, seq := range got {
		assert.EqualValues(t, i+1, seq)
	}

	_ = slow
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()
	userID := uuid.New()

	ch := b.Subscribe(roomID, userID)
	b.Unsubscribe(roomID, userID)
	b.Unsubscribe(roomID, userID)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers(roomID))
}

func TestResubscribeReplacesChannel(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()
	userID := uuid.New()

	old := b.Subscribe(roomID, userID)
	fresh := b.Subscribe(roomID, userID)

	_, ok := <-old
	assert.False(t, ok, "previous subscription must be closed")

	b.Publish(roomID, chatMsg(roomID, 1))
	assert.EqualValues(t, 1, recvOne(t, fresh).Seq)
	assert.Equal(t, 1, b.Subscribers(roomID))
}

func TestCloseRoomDeliversTerminalNotice(t *testing.T) {
	b := NewBroadcaster()
	roomID := uuid.New()

	ch := b.Subscribe(roomID, uuid.New())

	b.Publish(roomID, chatMsg(roomID, 1))
	b.CloseRoom(roomID)

	assert.EqualValues(t, 1, recvOne(t, ch).Seq)

	notice := recvOne(t, ch)
	assert.Equal(t, models.MessageSystem, notice.Type)
	assert.Equal(t, "room closed", notice.Content)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers(roomID))
}
