package websocket

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buskinglive/backend/internal/models"
	"github.com/google/uuid"
)

type sessionFixture struct {
	roomID uuid.UUID
	recv   chan models.ChatMessage
	client *websocket.Conn
}

// newSessionFixture поднимает сервер с настоящими прокачками Session
// и возвращает клиентское соединение к нему
func newSessionFixture(t *testing.T, send SendFunc) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		roomID: uuid.New(),
		recv:   make(chan models.ChatMessage, 64),
	}

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		sess := NewSession(conn, f.roomID, uuid.New(), f.recv, send, nil)
		go sess.WritePump()
		go sess.ReadPump()
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	f.client = client
	return f
}

func (f *sessionFixture) publish(seq int64) {
	f.recv <- models.ChatMessage{
		ID:        uuid.New(),
		RoomID:    f.roomID,
		Seq:       seq,
		Type:      models.MessageChat,
		Content:   "m",
		CreatedAt: time.Now(),
	}
}

func TestSendFailureReportedToClient(t *testing.T) {
	f := newSessionFixture(t, func(string) error {
		return errors.New("room is not active")
	})

	require.NoError(t, f.client.WriteJSON(map[string]string{"type": "message", "content": "hi"}))

	f.client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame map[string]string
	require.NoError(t, f.client.ReadJSON(&frame))
	assert.Equal(t, "room is not active", frame["error"])
}

// Ошибочные кадры от клиента во время активной рассылки: оба потока
// записи должны пройти через одну горутину, кадры приходят целыми
func TestErrorFramesInterleaveWithBroadcast(t *testing.T) {
	f := newSessionFixture(t, func(string) error { return nil })

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			f.client.WriteJSON(map[string]string{"type": "bogus"})
		}
	}()

	for seq := int64(1); seq <= 50; seq++ {
		f.publish(seq)
	}
	wg.Wait()

	// Дочитываем, пока не увидим и все сообщения комнаты, и хотя бы
	// одну ошибку; каждый кадр обязан распарситься
	f.client.SetReadDeadline(time.Now().Add(5 * time.Second))
	var messages, errFrames int
	var lastSeq int64
	for messages < 50 || errFrames == 0 {
		var frame map[string]any
		require.NoError(t, f.client.ReadJSON(&frame))

		if _, ok := frame["error"]; ok {
			errFrames++
			continue
		}

		messages++
		seq := int64(frame["seq"].(float64))
		assert.Greater(t, seq, lastSeq)
		lastSeq = seq
	}
	assert.Equal(t, 50, messages)
	assert.Positive(t, errFrames)
}

func TestClosedSubscriptionEndsSession(t *testing.T) {
	f := newSessionFixture(t, func(string) error { return nil })

	f.publish(1)
	close(f.recv)

	f.client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame map[string]any
	require.NoError(t, f.client.ReadJSON(&frame))
	assert.EqualValues(t, 1, frame["seq"])

	_, _, err := f.client.ReadMessage()
	var closeErr *websocket.CloseError
	require.ErrorAs(t, err, &closeErr)
	assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
	assert.Equal(t, "room closed", closeErr.Text)
}
