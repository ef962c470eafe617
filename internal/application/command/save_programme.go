package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE PROGRAMME COMMANDS
// Create, update and delete programme offerings.
// ══════════════════════════════════════════════════════════════════════════════

// SaveProgrammeCommand carries the offering fields the admin form submits.
// ID is empty on create and required on update.
type SaveProgrammeCommand struct {
	ID          string
	Name        string
	Category    string
	Description string
	PartnerName string
	StartDate   string
	DurationWks int
	Slots       int
	AdminID     string
}

// Validate checks the command fields.
func (c SaveProgrammeCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("save_programme: name is required")
	}
	return nil
}

// SaveProgrammeHandler creates and updates programme offerings.
type SaveProgrammeHandler struct {
	programmeRepo  programme.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewSaveProgrammeHandler creates the programme save handler.
func NewSaveProgrammeHandler(
	programmeRepo programme.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SaveProgrammeHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveProgrammeHandler{programmeRepo: programmeRepo, eventPublisher: eventPublisher, log: log}
}

// Handle creates the offering when the command has no ID, otherwise updates
// the existing one. Returns the saved entity ID.
func (h *SaveProgrammeHandler) Handle(ctx context.Context, cmd SaveProgrammeCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", shared.WrapError("command", "SaveProgramme", shared.ErrValidation, err.Error(), err)
	}

	startDate, err := timeutil.ParseISODate(cmd.StartDate)
	if err != nil {
		return "", shared.NewDomainError("programme", "save", shared.ErrInvalidFormat, "start date is not an ISO date")
	}

	creating := cmd.ID == ""

	var o *programme.Offering
	if creating {
		o = &programme.Offering{
			ID:        shared.EntityID(uuid.NewString()),
			CreatedAt: timeutil.Now(),
		}
	} else {
		o, err = h.programmeRepo.GetByID(ctx, shared.EntityID(cmd.ID))
		if err != nil {
			return "", err
		}
	}

	o.Name = strings.TrimSpace(cmd.Name)
	o.Category = programme.Category(cmd.Category)
	o.Description = strings.TrimSpace(cmd.Description)
	o.PartnerName = strings.TrimSpace(cmd.PartnerName)
	o.StartDate = startDate
	o.DurationWks = cmd.DurationWks
	o.Slots = cmd.Slots
	o.Touch()

	if err := o.Validate(); err != nil {
		return "", err
	}

	if creating {
		err = h.programmeRepo.Create(ctx, o)
	} else {
		err = h.programmeRepo.Update(ctx, o)
	}
	if err != nil {
		return "", err
	}

	if h.eventPublisher != nil {
		eventType := shared.EventOfferingUpdated
		summary := "Updated programme " + o.Name
		if creating {
			eventType = shared.EventOfferingCreated
			summary = "Opened programme " + o.Name
		}
		evt := shared.NewEntityChangedEvent(eventType, o.ID.String(), "programme", o.Name, summary).WithAdmin(cmd.AdminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("programme offering saved", logger.String("offering_id", o.ID.String()), logger.Bool("created", creating))
	return o.ID.String(), nil
}

// DeleteProgrammeHandler removes a programme offering.
type DeleteProgrammeHandler struct {
	programmeRepo  programme.Repository
	eventPublisher shared.EventPublisher
}

// NewDeleteProgrammeHandler creates the programme delete handler.
func NewDeleteProgrammeHandler(programmeRepo programme.Repository, eventPublisher shared.EventPublisher) *DeleteProgrammeHandler {
	return &DeleteProgrammeHandler{programmeRepo: programmeRepo, eventPublisher: eventPublisher}
}

// Handle deletes the offering.
func (h *DeleteProgrammeHandler) Handle(ctx context.Context, id, adminID string) error {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return shared.ErrOfferingNotFound
	}

	o, err := h.programmeRepo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := h.programmeRepo.Delete(ctx, entityID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventOfferingDeleted, id, "programme", o.Name,
			"Closed programme "+o.Name).WithAdmin(adminID)
		_ = h.eventPublisher.Publish(evt)
	}
	return nil
}
