// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Every admin-side mutation emits one of these so the
// "Recent Activities" feed and the audit log can follow along without the
// command handlers knowing about either.
const (
	// Partner events
	EventPartnerCreated EventType = "partner.created"
	EventPartnerUpdated EventType = "partner.updated"
	EventPartnerDeleted EventType = "partner.deleted"

	// Activity events
	EventActivityCreated EventType = "activity.created"
	EventActivityUpdated EventType = "activity.updated"
	EventActivityDeleted EventType = "activity.deleted"

	// Event (calendar) events
	EventEventCreated EventType = "event.created"
	EventEventUpdated EventType = "event.updated"
	EventEventDeleted EventType = "event.deleted"

	// Mobility programme events
	EventMobilityCreated EventType = "mobility.created"
	EventMobilityUpdated EventType = "mobility.updated"
	EventMobilityDeleted EventType = "mobility.deleted"

	// Programme offering events
	EventOfferingCreated EventType = "programme.created"
	EventOfferingUpdated EventType = "programme.updated"
	EventOfferingDeleted EventType = "programme.deleted"

	// Stats events
	EventStatsUpdated EventType = "stats.updated"

	// Admin events
	EventAdminLoggedIn EventType = "admin.logged_in"

	// System events
	EventViewRecorded EventType = "system.view_recorded"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Entity Change Events
// ═══════════════════════════════════════════════════════════════════════════

// EntityChangedEvent is emitted when an admin creates, updates, or deletes
// one of the dashboard collections. One event shape covers all entity kinds;
// Kind carries the collection name ("partner", "event", ...) and Summary is
// the human-readable line the recent-activities feed shows.
type EntityChangedEvent struct {
	BaseEvent
	Kind    string `json:"kind"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	AdminID string `json:"admin_id,omitempty"`
}

// Payload implements Event interface.
func (e EntityChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"kind":     e.Kind,
		"name":     e.Name,
		"summary":  e.Summary,
		"admin_id": e.AdminID,
	}
}

// NewEntityChangedEvent creates a new EntityChangedEvent.
func NewEntityChangedEvent(eventType EventType, entityID, kind, name, summary string) EntityChangedEvent {
	return EntityChangedEvent{
		BaseEvent: NewBaseEvent(eventType, entityID),
		Kind:      kind,
		Name:      name,
		Summary:   summary,
	}
}

// WithAdmin attaches the acting admin to the event.
func (e EntityChangedEvent) WithAdmin(adminID string) EntityChangedEvent {
	e.AdminID = adminID
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Admin Events
// ═══════════════════════════════════════════════════════════════════════════

// AdminLoggedInEvent is emitted after a successful admin login.
type AdminLoggedInEvent struct {
	BaseEvent
	Email string `json:"email"`
}

// Payload implements Event interface.
func (e AdminLoggedInEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"email": e.Email,
	}
}

// NewAdminLoggedInEvent creates a new AdminLoggedInEvent.
func NewAdminLoggedInEvent(adminID, email string) AdminLoggedInEvent {
	return AdminLoggedInEvent{
		BaseEvent: NewBaseEvent(EventAdminLoggedIn, adminID),
		Email:     email,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Interfaces
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
