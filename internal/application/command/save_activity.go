package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/activity"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE ACTIVITY COMMANDS
// Create, update and delete entries in the office activity feed.
// ══════════════════════════════════════════════════════════════════════════════

// SaveActivityCommand carries the activity fields the admin form submits.
// ID is empty on create and required on update.
type SaveActivityCommand struct {
	ID           string
	Title        string
	Description  string
	ActivityDate string
	ImageURL     string
	AdminID      string
}

// Validate checks the command fields.
func (c SaveActivityCommand) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("save_activity: title is required")
	}
	return nil
}

// SaveActivityHandler creates and updates activity feed entries.
type SaveActivityHandler struct {
	activityRepo   activity.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewSaveActivityHandler creates the activity save handler.
func NewSaveActivityHandler(
	activityRepo activity.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SaveActivityHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveActivityHandler{activityRepo: activityRepo, eventPublisher: eventPublisher, log: log}
}

// Handle creates the activity when the command has no ID, otherwise updates
// the existing one. Returns the saved entity ID.
func (h *SaveActivityHandler) Handle(ctx context.Context, cmd SaveActivityCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", shared.WrapError("command", "SaveActivity", shared.ErrValidation, err.Error(), err)
	}

	date, err := timeutil.ParseISODate(cmd.ActivityDate)
	if err != nil {
		return "", shared.NewDomainError("activity", "save", shared.ErrInvalidFormat, "activity date is not an ISO date")
	}

	creating := cmd.ID == ""

	var a *activity.Activity
	if creating {
		a = &activity.Activity{
			ID:        shared.EntityID(uuid.NewString()),
			CreatedAt: timeutil.Now(),
		}
	} else {
		a, err = h.activityRepo.GetByID(ctx, shared.EntityID(cmd.ID))
		if err != nil {
			return "", err
		}
	}

	a.Title = strings.TrimSpace(cmd.Title)
	a.Description = strings.TrimSpace(cmd.Description)
	a.ActivityDate = date
	a.ImageURL = strings.TrimSpace(cmd.ImageURL)
	a.Touch()

	if err := a.Validate(); err != nil {
		return "", err
	}

	if creating {
		err = h.activityRepo.Create(ctx, a)
	} else {
		err = h.activityRepo.Update(ctx, a)
	}
	if err != nil {
		return "", err
	}

	if h.eventPublisher != nil {
		eventType := shared.EventActivityUpdated
		summary := "Updated activity " + a.Title
		if creating {
			eventType = shared.EventActivityCreated
			summary = "Posted activity " + a.Title
		}
		evt := shared.NewEntityChangedEvent(eventType, a.ID.String(), "activity", a.Title, summary).WithAdmin(cmd.AdminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("activity saved", logger.String("activity_id", a.ID.String()), logger.Bool("created", creating))
	return a.ID.String(), nil
}

// DeleteActivityHandler removes an activity feed entry.
type DeleteActivityHandler struct {
	activityRepo   activity.Repository
	eventPublisher shared.EventPublisher
}

// NewDeleteActivityHandler creates the activity delete handler.
func NewDeleteActivityHandler(activityRepo activity.Repository, eventPublisher shared.EventPublisher) *DeleteActivityHandler {
	return &DeleteActivityHandler{activityRepo: activityRepo, eventPublisher: eventPublisher}
}

// Handle deletes the activity.
func (h *DeleteActivityHandler) Handle(ctx context.Context, id, adminID string) error {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return shared.ErrActivityNotFound
	}

	a, err := h.activityRepo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := h.activityRepo.Delete(ctx, entityID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventActivityDeleted, id, "activity", a.Title,
			"Removed activity "+a.Title).WithAdmin(adminID)
		_ = h.eventPublisher.Publish(evt)
	}
	return nil
}
