package command

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/mobility"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE MOBILITY COMMANDS
// Create, update and delete mobility placements.
// ══════════════════════════════════════════════════════════════════════════════

// SaveMobilityCommand carries the placement fields the admin form submits.
// ID is empty on create and required on update.
type SaveMobilityCommand struct {
	ID              string
	Type            string
	Direction       string
	ParticipantName string
	Institution     string
	Country         string
	AcademicYear    string
	StartDate       string
	EndDate         string
	AdminID         string
}

// SaveMobilityHandler creates and updates mobility placements.
type SaveMobilityHandler struct {
	mobilityRepo   mobility.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewSaveMobilityHandler creates the mobility save handler.
func NewSaveMobilityHandler(
	mobilityRepo mobility.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SaveMobilityHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SaveMobilityHandler{mobilityRepo: mobilityRepo, eventPublisher: eventPublisher, log: log}
}

// Handle creates the placement when the command has no ID, otherwise updates
// the existing one. Returns the saved entity ID.
func (h *SaveMobilityHandler) Handle(ctx context.Context, cmd SaveMobilityCommand) (string, error) {
	startDate, err := timeutil.ParseISODate(cmd.StartDate)
	if err != nil {
		return "", shared.NewDomainError("mobility", "save", shared.ErrInvalidFormat, "start date is not an ISO date")
	}
	endDate, err := timeutil.ParseISODate(cmd.EndDate)
	if err != nil {
		return "", shared.NewDomainError("mobility", "save", shared.ErrInvalidFormat, "end date is not an ISO date")
	}

	creating := cmd.ID == ""

	var p *mobility.Programme
	if creating {
		p = &mobility.Programme{
			ID:        shared.EntityID(uuid.NewString()),
			CreatedAt: timeutil.Now(),
		}
	} else {
		p, err = h.mobilityRepo.GetByID(ctx, shared.EntityID(cmd.ID))
		if err != nil {
			return "", err
		}
	}

	p.Type = mobility.Type(cmd.Type)
	p.Direction = mobility.Direction(cmd.Direction)
	p.ParticipantName = strings.TrimSpace(cmd.ParticipantName)
	p.Institution = strings.TrimSpace(cmd.Institution)
	p.Country = strings.TrimSpace(cmd.Country)
	p.AcademicYear = strings.TrimSpace(cmd.AcademicYear)
	p.StartDate = startDate
	p.EndDate = endDate
	p.Touch()

	if err := p.Validate(); err != nil {
		return "", err
	}

	if creating {
		err = h.mobilityRepo.Create(ctx, p)
	} else {
		err = h.mobilityRepo.Update(ctx, p)
	}
	if err != nil {
		return "", err
	}

	if h.eventPublisher != nil {
		eventType := shared.EventMobilityUpdated
		summary := "Updated " + cmd.Type + " placement"
		if creating {
			eventType = shared.EventMobilityCreated
			summary = "Recorded " + cmd.Direction + " " + cmd.Type + " placement"
		}
		evt := shared.NewEntityChangedEvent(eventType, p.ID.String(), "mobility", p.ParticipantName, summary).WithAdmin(cmd.AdminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("mobility placement saved", logger.String("programme_id", p.ID.String()), logger.Bool("created", creating))
	return p.ID.String(), nil
}

// DeleteMobilityHandler removes a mobility placement.
type DeleteMobilityHandler struct {
	mobilityRepo   mobility.Repository
	eventPublisher shared.EventPublisher
}

// NewDeleteMobilityHandler creates the mobility delete handler.
func NewDeleteMobilityHandler(mobilityRepo mobility.Repository, eventPublisher shared.EventPublisher) *DeleteMobilityHandler {
	return &DeleteMobilityHandler{mobilityRepo: mobilityRepo, eventPublisher: eventPublisher}
}

// Handle deletes the placement.
func (h *DeleteMobilityHandler) Handle(ctx context.Context, id, adminID string) error {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return shared.ErrProgrammeNotFound
	}

	p, err := h.mobilityRepo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}
	if err := h.mobilityRepo.Delete(ctx, entityID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventMobilityDeleted, id, "mobility", p.ParticipantName,
			"Removed mobility placement").WithAdmin(adminID)
		_ = h.eventPublisher.Publish(evt)
	}
	return nil
}
