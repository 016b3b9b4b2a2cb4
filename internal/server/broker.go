package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/fahroox/attendance/internal/attendance"
	"github.com/fahroox/attendance/internal/geo"
	"github.com/fahroox/attendance/internal/location"
)

// LocationEvent is the payload published to a user's event stream when a
// detection attempt settles.
type LocationEvent struct {
	Type             string  `json:"type"`
	StudioID         string  `json:"studioId,omitempty"`
	StudioName       string  `json:"studioName,omitempty"`
	DistanceM        float64 `json:"distanceM,omitempty"`
	PermissionStatus string  `json:"permissionStatus,omitempty"`
	Message          string  `json:"message,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by user ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given user.
func (b *Broker) Subscribe(userID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[chan []byte]struct{})
	}
	b.subs[userID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the user's subscribers.
func (b *Broker) Unsubscribe(userID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[userID], ch)
	if len(b.subs[userID]) == 0 {
		delete(b.subs, userID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given user.
func (b *Broker) Publish(userID string, event LocationEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[userID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// brokerNotifier bridges controller outcomes onto a user's event stream.
type brokerNotifier struct {
	broker *Broker
	userID string
}

func (n brokerNotifier) Matched(studio attendance.Studio, distanceM float64) {
	n.broker.Publish(n.userID, LocationEvent{
		Type:       "studio_matched",
		StudioID:   studio.ID,
		StudioName: studio.Name,
		DistanceM:  distanceM,
		Message:    fmt.Sprintf("You're near %s (%s away)", studio.Name, geo.FormatDistance(distanceM)),
	})
}

func (n brokerNotifier) NoMatch(radiusM float64) {
	n.broker.Publish(n.userID, LocationEvent{
		Type:    "no_match",
		Message: fmt.Sprintf("No studios found within %s of your location", geo.FormatDistance(radiusM)),
	})
}

func (n brokerNotifier) Failed(status location.PermissionStatus, message string) {
	n.broker.Publish(n.userID, LocationEvent{
		Type:             "location_error",
		PermissionStatus: string(status),
		Message:          message,
	})
}
