package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLocationUpdater struct {
	mock.Mock
}

func (m *MockLocationUpdater) Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type hubFixture struct {
	hub     *Hub
	server  *httptest.Server
	updater *MockLocationUpdater
}

func newHubFixture(t *testing.T) *hubFixture {
	t.Helper()

	updater := &MockLocationUpdater{}
	hub := NewHub(updater, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := kernel.UUIDFromString(strings.TrimPrefix(r.URL.Path, "/ws/drivers/"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		_ = hub.ServeDriver(w, r, id)
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return &hubFixture{hub: hub, server: server, updater: updater}
}

func (f *hubFixture) dial(t *testing.T, driverID kernel.UUID) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/drivers/" + driverID.String()
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return f.hub.Connected(driverID) }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHub_LocationMessageUpdatesDriver(t *testing.T) {
	f := newHubFixture(t)
	driverID := kernel.NewUUID()

	received := make(chan commands.UpdateDriverLocationCommand, 1)
	f.updater.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			received <- args.Get(1).(commands.UpdateDriverLocationCommand)
		}).
		Return(nil).Once()

	conn := f.dial(t, driverID)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"location","lat":6.9271,"lng":79.8612}`)))

	select {
	case cmd := <-received:
		assert.True(t, cmd.DriverID().IsEqual(driverID))
		assert.InDelta(t, 6.9271, cmd.Location().Latitude(), 1e-9)
		assert.InDelta(t, 79.8612, cmd.Location().Longitude(), 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("location update not received")
	}
}

func TestHub_InvalidMessagesGetErrorReplies(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "malformed json", payload: `{"type":`, want: "malformed message"},
		{name: "missing coordinates", payload: `{"type":"location","lat":1}`, want: "location requires lat and lng"},
		{name: "latitude out of range", payload: `{"type":"location","lat":91,"lng":0}`, want: "invalid coordinate"},
		{name: "unknown type", payload: `{"type":"dance"}`, want: "unsupported message type dance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newHubFixture(t)
			conn := f.dial(t, kernel.NewUUID())

			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)))

			msg := readMessage(t, conn)
			assert.Equal(t, TypeError, msg.Type)
			assert.Contains(t, msg.Error, tt.want)
			f.updater.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestHub_FailedLocationUpdateIsReported(t *testing.T) {
	f := newHubFixture(t)
	f.updater.On("Handle", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	conn := f.dial(t, kernel.NewUUID())
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"location","lat":1,"lng":2}`)))

	msg := readMessage(t, conn)
	assert.Equal(t, TypeError, msg.Type)
	assert.Equal(t, "location update failed", msg.Error)
}

func TestHub_AssignmentIsPushedToAssignedDriverOnly(t *testing.T) {
	f := newHubFixture(t)
	assigned := kernel.NewUUID()
	other := kernel.NewUUID()

	assignedConn := f.dial(t, assigned)
	otherConn := f.dial(t, other)

	mediator := ddd.NewMediator()
	mediator.Subscribe(f.hub, f.hub.EventNames()...)

	event := delivery.AssignedEvent{
		BaseEvent:     ddd.NewBaseEvent(delivery.AssignedEventName),
		DeliveryID:    kernel.NewUUID(),
		OrderID:       kernel.NewUUID(),
		DriverID:      assigned,
		Pickup:        kernel.MustNewLocation(6.90, 79.85),
		Dropoff:       kernel.MustNewLocation(6.93, 79.86),
		DistanceKm:    3.5,
		EstimatedTime: 7*time.Minute + 30*time.Second,
	}
	require.NoError(t, mediator.Publish(context.Background(), event))

	msg := readMessage(t, assignedConn)
	assert.Equal(t, delivery.AssignedEventName, msg.Type)
	assert.NotEmpty(t, msg.Timestamp)

	data, ok := msg.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, event.DeliveryID.String(), data["delivery_id"])
	assert.Equal(t, event.OrderID.String(), data["order_id"])
	assert.InDelta(t, 3.5, data["distance_km"], 1e-9)
	assert.InDelta(t, 8, data["estimated_minutes"], 1e-9)

	require.NoError(t, otherConn.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := otherConn.ReadMessage()
	require.Error(t, err)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	f := newHubFixture(t)
	driverID := kernel.NewUUID()

	conn := f.dial(t, driverID)
	require.NoError(t, conn.Close())

	assert.Eventually(t, func() bool { return !f.hub.Connected(driverID) }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_IgnoresOtherEvents(t *testing.T) {
	f := newHubFixture(t)

	err := f.hub.Handle(context.Background(), delivery.CompletedEvent{
		BaseEvent: ddd.NewBaseEvent(delivery.CompletedEventName),
	})

	require.NoError(t, err)
}

func newDetachedClient(h *Hub, driverID kernel.UUID) *Client {
	return &Client{hub: h, driverID: driverID, send: make(chan Message, 1), logger: h.logger}
}

func TestHub_ReplyReachesOnlyTheReplyingConnection(t *testing.T) {
	h := NewHub(&MockLocationUpdater{}, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	driverID := kernel.NewUUID()
	first := newDetachedClient(h, driverID)
	second := newDetachedClient(h, driverID)
	h.register <- first
	h.register <- second

	first.reply(Message{Type: TypeError, Error: "location update failed"})

	select {
	case msg := <-first.send:
		assert.Equal(t, "location update failed", msg.Error)
		assert.NotEmpty(t, msg.Timestamp)
	case <-time.After(2 * time.Second):
		t.Fatal("reply not delivered")
	}
	assert.Empty(t, second.send)
}

func TestHub_ReplyAfterDisconnectIsDiscarded(t *testing.T) {
	h := NewHub(&MockLocationUpdater{}, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := newDetachedClient(h, kernel.NewUUID())
	h.register <- c
	h.unregister <- c
	_, open := <-c.send
	require.False(t, open)

	assert.NotPanics(t, func() { c.reply(Message{Type: TypeError, Error: "late"}) })

	cancel()
	<-h.done
	assert.NotPanics(t, func() { c.reply(Message{Type: TypeError, Error: "after stop"}) })
}
