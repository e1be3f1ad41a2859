package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// ErrClientSlow is returned when a client's send buffer is full.
// The hub drops such a client; it reconnects and refetches.
var ErrClientSlow = errors.New("client send buffer full")

// ClientInterface defines the interface that clients must implement
type ClientInterface interface {
	ID() string
	TenantID() int32
	Send(data []byte) error
	Close() error
}

// Hub manages WebSocket connections grouped by tenant. Events published for
// one tenant never reach clients of another.
// It is safe for concurrent use
type Hub struct {
	// tenants maps tenant ID to a map of client ID to client
	tenants map[int32]map[string]ClientInterface
	mu      sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		tenants: make(map[int32]map[string]ClientInterface),
	}
}

// Register adds a client to the hub under its tenant
func (h *Hub) Register(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tenantID := client.TenantID()
	clientID := client.ID()

	if h.tenants[tenantID] == nil {
		h.tenants[tenantID] = make(map[string]ClientInterface)
	}

	h.tenants[tenantID][clientID] = client

	log.Debug().
		Int32("tenant_id", tenantID).
		Str("client_id", clientID).
		Msg("WebSocket client registered")
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	tenantID := client.TenantID()
	clientID := client.ID()

	clients, ok := h.tenants[tenantID]
	if !ok {
		return
	}
	if _, exists := clients[clientID]; !exists {
		return
	}

	delete(clients, clientID)
	if len(clients) == 0 {
		delete(h.tenants, tenantID)
	}

	log.Debug().
		Int32("tenant_id", tenantID).
		Str("client_id", clientID).
		Msg("WebSocket client unregistered")
}

// Broadcast sends an event to all clients of one tenant
func (h *Hub) Broadcast(tenantID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().
			Err(err).
			Int32("tenant_id", tenantID).
			Str("event_type", event.Type).
			Msg("Failed to serialize event")
		return
	}

	clients := h.snapshot(tenantID)
	if len(clients) == 0 {
		return
	}

	// Send to each client asynchronously
	for _, client := range clients {
		go func(c ClientInterface) {
			err := c.Send(data)
			if err == nil {
				return
			}
			log.Warn().
				Err(err).
				Int32("tenant_id", tenantID).
				Str("client_id", c.ID()).
				Msg("Failed to send to client")
			if errors.Is(err, ErrClientSlow) {
				h.Unregister(c)
				c.Close()
			}
		}(client)
	}

	log.Debug().
		Int32("tenant_id", tenantID).
		Str("event_type", event.Type).
		Int("client_count", len(clients)).
		Msg("Broadcast event")
}

// snapshot copies a tenant's clients so sends happen without holding the lock
func (h *Hub) snapshot(tenantID int32) []ClientInterface {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.tenants[tenantID]
	result := make([]ClientInterface, 0, len(clients))
	for _, client := range clients {
		result = append(result, client)
	}
	return result
}

// CloseAll disconnects every client. Called on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	tenants := h.tenants
	h.tenants = make(map[int32]map[string]ClientInterface)
	h.mu.Unlock()

	closed := 0
	for _, clients := range tenants {
		for _, client := range clients {
			_ = client.Close()
			closed++
		}
	}
	log.Info().Int("client_count", closed).Msg("Closed WebSocket clients")
}

// ClientCount returns the number of clients connected for a tenant
func (h *Hub) ClientCount(tenantID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.tenants[tenantID])
}

// TotalClientCount returns the number of connected clients across all tenants
func (h *Hub) TotalClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, clients := range h.tenants {
		total += len(clients)
	}
	return total
}
