package service

import "time"

// Event names published to live-update subscribers
const (
	EventProductCreated = "product_created"
	EventProductUpdated = "product_updated"
	EventProductDeleted = "product_deleted"
	EventSaleRecorded   = "sale_recorded"
	EventSalesReset     = "sales_reset"
	EventOrderCreated   = "order_created"
	EventOrderUpdated   = "order_updated"
	EventOrderDeleted   = "order_deleted"
)

// Event is the JSON envelope pushed over the websocket
type Event struct {
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster fans committed changes out to subscribers. Publish must not block.
type Broadcaster interface {
	Publish(event Event)
}

type noopBroadcaster struct{}

func (noopBroadcaster) Publish(Event) {}

func broadcasterOrNoop(b Broadcaster) Broadcaster {
	if b == nil {
		return noopBroadcaster{}
	}
	return b
}

func newEvent(eventType string, data any) Event {
	return Event{Type: eventType, Data: data, Timestamp: time.Now().UTC()}
}
