package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/event"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE EVENT COMMANDS
// Create, update and delete entries on the campus events page.
// ══════════════════════════════════════════════════════════════════════════════

// SaveEventCommand carries the event fields the admin form submits.
// ID is empty on create and required on update.
type SaveEventCommand struct {
	ID               string
	Title            string
	Place            string
	EventDate        string
	ShortDescription string
	ImageURL         string
	AdminID          string
}

// Validate checks the command fields.
func (c SaveEventCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("save_event: title is required")
	}
	return nil
}

// SaveEventHandler creates and updates campus events.
type SaveEventHandler struct {
	eventRepo      event.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewSaveEventHandler creates the event save handler.
func NewSaveEventHandler(
	eventRepo event.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SaveEventHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveEventHandler{eventRepo: eventRepo, eventPublisher: eventPublisher, log: log}
}

// Handle creates the event when the command has no ID, otherwise updates
// the existing one. Returns the saved entity ID.
func (h *SaveEventHandler) Handle(ctx context.Context, cmd SaveEventCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", shared.WrapError("command", "SaveEvent", shared.ErrValidation, err.Error(), err)
	}

	date, err := timeutil.ParseISODate(cmd.EventDate)
	if err != nil {
		return "", shared.NewDomainError("event", "save", shared.ErrInvalidFormat, "event date is not an ISO date")
	}

	creating := cmd.ID == ""

	var e *event.Event
	if creating {
		e = &event.Event{
			ID:        shared.EntityID(uuid.NewString()),
			CreatedAt: timeutil.Now(),
		}
	} else {
		e, err = h.eventRepo.GetByID(ctx, shared.EntityID(cmd.ID))
		if err != nil {
			return "", err
		}
	}

	e.Title = strings.TrimSpace(cmd.Title)
	e.Place = strings.TrimSpace(cmd.Place)
	e.EventDate = date
	e.ShortDescription = strings.TrimSpace(cmd.ShortDescription)
	e.ImageURL = strings.TrimSpace(cmd.ImageURL)
	e.Touch()

	if err := e.Validate(); err != nil {
		return "", err
	}

	if creating {
		err = h.eventRepo.Create(ctx, e)
	} else {
		err = h.eventRepo.Update(ctx, e)
	}
	if err != nil {
		return "", err
	}

	if h.eventPublisher != nil {
		eventType := shared.EventEventUpdated
		summary := "Updated event " + e.Title
		if creating {
			eventType = shared.EventEventCreated
			summary = "Scheduled event " + e.Title
		}
		evt := shared.NewEntityChangedEvent(eventType, e.ID.String(), "event", e.Title, summary).WithAdmin(cmd.AdminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("event saved", logger.String("event_id", e.ID.String()), logger.Bool("created", creating))
	return e.ID.String(), nil
}

// DeleteEventHandler removes a campus event.
type DeleteEventHandler struct {
	eventRepo      event.Repository
	eventPublisher shared.EventPublisher
}

// NewDeleteEventHandler creates the event delete handler.
func NewDeleteEventHandler(eventRepo event.Repository, eventPublisher shared.EventPublisher) *DeleteEventHandler {
	return &DeleteEventHandler{eventRepo: eventRepo, eventPublisher: eventPublisher}
}

// Handle deletes the event.
func (h *DeleteEventHandler) Handle(ctx context.Context, id, adminID string) error {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return shared.ErrEventNotFound
	}

	e, err := h.eventRepo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := h.eventRepo.Delete(ctx, entityID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventEventDeleted, id, "event", e.Title,
			"Removed event "+e.Title).WithAdmin(adminID)
		_ = h.eventPublisher.Publish(evt)
	}
	return nil
}
