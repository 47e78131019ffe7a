// Package ws connects driver apps over websockets: drivers stream their
// location in and receive their assignments out.
package ws

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBuffer     = 64
)

const (
	TypeLocation         = "location"
	TypeDeliveryAssigned = delivery.AssignedEventName
	TypeError            = "error"
)

// Message is the envelope of every frame in both directions.
type Message struct {
	Type      string   `json:"type"`
	Lat       *float64 `json:"lat,omitempty"`
	Lng       *float64 `json:"lng,omitempty"`
	Data      any      `json:"data,omitempty"`
	Error     string   `json:"error,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

type AssignmentData struct {
	DeliveryID       string  `json:"delivery_id"`
	OrderID          string  `json:"order_id"`
	PickupLat        float64 `json:"pickup_lat"`
	PickupLng        float64 `json:"pickup_lng"`
	DropoffLat       float64 `json:"dropoff_lat"`
	DropoffLng       float64 `json:"dropoff_lng"`
	DistanceKm       float64 `json:"distance_km"`
	EstimatedMinutes int     `json:"estimated_minutes"`
}

type LocationUpdater interface {
	Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error
}

// envelope is a queued message. With client set it is a reply to that
// connection only; otherwise it goes to every connection of driverID.
type envelope struct {
	driverID kernel.UUID
	client   *Client
	message  Message
}

// Hub tracks the open connections of each driver. A driver may hold several.
type Hub struct {
	clients    map[kernel.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	send       chan envelope
	done       chan struct{}
	mutex      sync.RWMutex
	locations  LocationUpdater
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

func NewHub(locations LocationUpdater, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[kernel.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		send:       make(chan envelope, 256),
		done:       make(chan struct{}),
		locations:  locations,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "DriverHub"),
	}
}

// Run serves registrations and deliveries until ctx ends, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for id, set := range h.clients {
				for c := range set {
					close(c.send)
				}
				delete(h.clients, id)
			}
			h.mutex.Unlock()
			return

		case c := <-h.register:
			h.mutex.Lock()
			set, ok := h.clients[c.driverID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[c.driverID] = set
			}
			set[c] = struct{}{}
			h.mutex.Unlock()
			h.logger.Info("driver connected", "driverID", c.driverID.String())

		case c := <-h.unregister:
			h.mutex.Lock()
			h.drop(c)
			h.mutex.Unlock()
			h.logger.Info("driver disconnected", "driverID", c.driverID.String())

		case e := <-h.send:
			h.mutex.Lock()
			h.deliver(e)
			h.mutex.Unlock()
		}
	}
}

// EventNames lists the domain events Handle consumes.
func (h *Hub) EventNames() []string {
	return []string{delivery.AssignedEventName}
}

// SendToDriver queues msg for every connection of the driver. It never blocks;
// the message is dropped when the hub is saturated.
func (h *Hub) SendToDriver(driverID kernel.UUID, msg Message) bool {
	if msg.Timestamp == "" {
		msg.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	select {
	case h.send <- envelope{driverID: driverID, message: msg}:
		return true
	default:
		h.logger.Warn("send queue full, dropping message", "driverID", driverID.String(), "type", msg.Type)
		return false
	}
}

// Connected reports whether the driver has an open connection.
func (h *Hub) Connected(driverID kernel.UUID) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[driverID]) > 0
}

// Handle pushes assignments to the assigned driver. It is subscribed to
// delivery.assigned on the mediator.
func (h *Hub) Handle(_ context.Context, event ddd.DomainEvent) error {
	e, ok := event.(delivery.AssignedEvent)
	if !ok {
		return nil
	}
	h.SendToDriver(e.DriverID, Message{
		Type: TypeDeliveryAssigned,
		Data: AssignmentData{
			DeliveryID:       e.DeliveryID.String(),
			OrderID:          e.OrderID.String(),
			PickupLat:        e.Pickup.Latitude(),
			PickupLng:        e.Pickup.Longitude(),
			DropoffLat:       e.Dropoff.Latitude(),
			DropoffLng:       e.Dropoff.Longitude(),
			DistanceKm:       e.DistanceKm,
			EstimatedMinutes: int(math.Ceil(e.EstimatedTime.Minutes())),
		},
	})
	return nil
}

// ServeDriver upgrades the request and attaches the connection to driverID.
// The caller has already checked that the driver exists.
func (h *Hub) ServeDriver(w http.ResponseWriter, r *http.Request, driverID kernel.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &Client{
		hub:      h,
		conn:     conn,
		driverID: driverID,
		send:     make(chan Message, sendBuffer),
		logger:   h.logger.With("driverID", driverID.String()),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return errors.New("driver hub is stopped")
	}

	go c.writePump()
	go c.readPump(context.WithoutCancel(r.Context()))
	return nil
}

// deliver must be called with the mutex held. Only Run closes a client's
// send channel, so writing to it here never races with the close. A reply to
// a full buffer is dropped; a broadcast to one drops the slow connection.
func (h *Hub) deliver(e envelope) {
	if e.client != nil {
		if _, ok := h.clients[e.driverID][e.client]; !ok {
			return
		}
		select {
		case e.client.send <- e.message:
		default:
		}
		return
	}
	for c := range h.clients[e.driverID] {
		select {
		case c.send <- e.message:
		default:
			h.drop(c)
		}
	}
}

// drop must be called with the mutex held.
func (h *Hub) drop(c *Client) {
	set, ok := h.clients[c.driverID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.driverID)
	}
}
