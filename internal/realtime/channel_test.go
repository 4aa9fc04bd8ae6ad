package realtime_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightbite/campus-client/internal/models"
	"github.com/brightbite/campus-client/internal/realtime"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []models.Message
	downs    int
}

func (h *recordingHandler) HandleMessage(msg models.Message) {
	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.mu.Unlock()
}

func (h *recordingHandler) HandleDown(error) {
	h.mu.Lock()
	h.downs++
	h.mu.Unlock()
}

func (h *recordingHandler) messageCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

func (h *recordingHandler) downCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.downs
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsServer upgrades one connection, writes the given frames, then waits
// until the test finishes.
func wsServer(t *testing.T, frames []string, userIDs chan<- string) string {
	t.Helper()
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userIDs != nil {
			userIDs <- r.URL.Query().Get("userId")
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		for _, frame := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		}
		<-done
	}))
	t.Cleanup(func() {
		close(done)
		srv.Close()
	})
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestChannelForwardsFrames(t *testing.T) {
	url := wsServer(t, []string{
		`{"type":"ping"}`,
		`this is not json`,
		`{"type":"unknown_kind"}`,
		`{"type":"order_status","order_id":"o-1","db_status":"PREPARING"}`,
		`{"type":"points_awarded","order_id":"o-1","reward_points":10}`,
	}, nil)

	handler := &recordingHandler{}
	ch, err := realtime.NewDialer(url, nil).Dial(context.Background(), "u-1", handler)
	require.NoError(t, err)
	defer ch.Close()

	require.Eventually(t, func() bool { return handler.messageCount() == 2 },
		time.Second, 5*time.Millisecond)

	handler.mu.Lock()
	defer handler.mu.Unlock()
	assert.Equal(t, models.TypeOrderStatus, handler.messages[0].Type)
	assert.Equal(t, "PREPARING", handler.messages[0].DBStatus)
	assert.Equal(t, models.TypePointsAwarded, handler.messages[1].Type)
	assert.Equal(t, 10, handler.messages[1].RewardPoints)
}

func TestChannelAddressesUser(t *testing.T) {
	userIDs := make(chan string, 1)
	url := wsServer(t, nil, userIDs)

	handler := &recordingHandler{}
	ch, err := realtime.NewDialer(url, nil).Dial(context.Background(), "u-17", handler)
	require.NoError(t, err)
	defer ch.Close()

	assert.Equal(t, "u-17", <-userIDs)
}

func TestChannelReportsDownOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	handler := &recordingHandler{}
	ch, err := realtime.NewDialer(url, nil).Dial(context.Background(), "u-1", handler)
	require.NoError(t, err)
	defer ch.Close()

	require.Eventually(t, func() bool { return handler.downCount() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, handler.downCount())
}

func TestCloseSuppressesDown(t *testing.T) {
	url := wsServer(t, nil, nil)

	handler := &recordingHandler{}
	ch, err := realtime.NewDialer(url, nil).Dial(context.Background(), "u-1", handler)
	require.NoError(t, err)

	ch.Close()
	ch.Close() // idempotent

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, handler.downCount(), "deliberate close is not an outage")
}

func TestDialFailure(t *testing.T) {
	handler := &recordingHandler{}
	_, err := realtime.NewDialer("ws://127.0.0.1:1/ws/orders", nil).Dial(context.Background(), "u-1", handler)
	assert.Error(t, err)
}
