package event

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Meta links an event back to the command invocation that produced it.
type Meta struct {
	CommandID     string `json:"command_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// Event represents a domain event. Immutable once published.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Payload   any       `json:"payload"`
	Meta      Meta      `json:"meta"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates an Event with an auto-generated id and timestamp. The event
// name is derived from the payload type name.
//
// Example:
//
//	type UserRegistered struct {
//	    UserID string
//	    Email  string
//	}
//
//	evt := event.New(UserRegistered{UserID: "123"}, meta)
//	// evt.Name == "UserRegistered"
func New(payload any, meta Meta) Event {
	return Event{
		ID:        uuid.New().String(),
		Name:      Name(payload),
		Payload:   payload,
		Meta:      meta,
		CreatedAt: time.Now(),
	}
}

// Name derives the event name from a payload value. Pointers are
// dereferenced; unnamed types fall back to their string representation.
func Name(payload any) string {
	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
