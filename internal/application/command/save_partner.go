// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SAVE PARTNER COMMANDS
// Create, update and delete partner universities from the admin dashboard.
// A partner saved without coordinates is geocoded from its city and country
// when a geocoder is wired; geocoding failures never block the save.
// ══════════════════════════════════════════════════════════════════════════════

// Geocoder resolves a place to map coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city, country string) (shared.Coordinates, error)
}

// SavePartnerCommand carries the partner fields the admin form submits.
// ID is empty on create and required on update.
type SavePartnerCommand struct {
	ID          string
	Name        string
	Country     string
	City        string
	Lat         float64
	Lng         float64
	Students    int
	Programs    []string
	Established int
	Type        string
	SignDate    string
	ExpiryDate  string

	// AdminID is the acting admin, for the change feed.
	AdminID string
}

// Validate checks the command fields that do not need domain state.
func (c SavePartnerCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("save_partner: name is required")
	}
	if strings.TrimSpace(c.Country) == "" {
		return errors.New("save_partner: country is required")
	}
	return nil
}

// SavePartnerResult reports the outcome of a save.
type SavePartnerResult struct {
	ID       string
	Created  bool
	Geocoded bool
}

// SavePartnerHandler creates and updates partner universities.
type SavePartnerHandler struct {
	partnerRepo    partner.Repository
	geocoder       Geocoder
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewSavePartnerHandler creates the partner save handler. The geocoder and
// publisher may be nil.
func NewSavePartnerHandler(
	partnerRepo partner.Repository,
	geocoder Geocoder,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SavePartnerHandler {
	if log == nil {
		log = logger.Default()
	}
	return &SavePartnerHandler{
		partnerRepo:    partnerRepo,
		geocoder:       geocoder,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle creates the partner when the command has no ID, otherwise updates
// the existing one.
func (h *SavePartnerHandler) Handle(ctx context.Context, cmd SavePartnerCommand) (*SavePartnerResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, shared.WrapError("command", "SavePartner", shared.ErrValidation, err.Error(), err)
	}

	signDate, err := timeutil.ParseISODate(cmd.SignDate)
	if err != nil {
		return nil, shared.ErrInvalidAgreement
	}
	expiryDate, err := timeutil.ParseISODate(cmd.ExpiryDate)
	if err != nil {
		return nil, shared.ErrInvalidAgreement
	}

	creating := cmd.ID == ""

	var p *partner.Partner
	if creating {
		p = &partner.Partner{
			ID:        shared.EntityID(uuid.NewString()),
			CreatedAt: timeutil.Now(),
		}
	} else {
		p, err = h.partnerRepo.GetByID(ctx, shared.EntityID(cmd.ID))
		if err != nil {
			return nil, err
		}
	}

	p.Name = strings.TrimSpace(cmd.Name)
	p.Country = strings.TrimSpace(cmd.Country)
	p.City = strings.TrimSpace(cmd.City)
	p.Coordinates = shared.Coordinates{Lat: cmd.Lat, Lng: cmd.Lng}
	p.Students = cmd.Students
	p.Programs = cmd.Programs
	p.Established = cmd.Established
	p.Type = partner.Type(cmd.Type)
	p.SignDate = signDate
	p.ExpiryDate = expiryDate
	p.Touch()

	geocoded := h.fillCoordinates(ctx, p)

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if creating {
		err = h.partnerRepo.Create(ctx, p)
	} else {
		err = h.partnerRepo.Update(ctx, p)
	}
	if err != nil {
		return nil, err
	}

	h.publishChange(creating, p, cmd.AdminID)

	h.log.Info("partner saved",
		logger.PartnerID(p.ID.String()),
		logger.Country(p.Country),
		logger.Bool("created", creating),
	)

	return &SavePartnerResult{ID: p.ID.String(), Created: creating, Geocoded: geocoded}, nil
}

// fillCoordinates geocodes the partner when it has a city but no pin.
// Failures are logged and swallowed.
func (h *SavePartnerHandler) fillCoordinates(ctx context.Context, p *partner.Partner) bool {
	if h.geocoder == nil || p.HasCoordinates() || p.City == "" {
		return false
	}

	coords, err := h.geocoder.Geocode(ctx, p.City, p.Country)
	if err != nil {
		h.log.Warn("geocoding failed, saving partner without pin",
			logger.PartnerID(p.ID.String()),
			logger.Err(err),
		)
		return false
	}

	p.Coordinates = coords
	return true
}

func (h *SavePartnerHandler) publishChange(created bool, p *partner.Partner, adminID string) {
	if h.eventPublisher == nil {
		return
	}
	eventType := shared.EventPartnerUpdated
	summary := "Updated partner university " + p.Name
	if created {
		eventType = shared.EventPartnerCreated
		summary = "Added partner university " + p.Name + " (" + p.Country + ")"
	}
	evt := shared.NewEntityChangedEvent(eventType, p.ID.String(), "partner", p.Name, summary).WithAdmin(adminID)
	_ = h.eventPublisher.Publish(evt)
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete
// ─────────────────────────────────────────────────────────────────────────────

// DeletePartnerHandler removes a partner university.
type DeletePartnerHandler struct {
	partnerRepo    partner.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewDeletePartnerHandler creates the partner delete handler.
func NewDeletePartnerHandler(
	partnerRepo partner.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *DeletePartnerHandler {
	if log == nil {
		log = logger.Default()
	}
	return &DeletePartnerHandler{partnerRepo: partnerRepo, eventPublisher: eventPublisher, log: log}
}

// Handle deletes the partner.
func (h *DeletePartnerHandler) Handle(ctx context.Context, id, adminID string) error {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return shared.ErrPartnerNotFound
	}

	p, err := h.partnerRepo.GetByID(ctx, entityID)
	if err != nil {
		return err
	}

	if err := h.partnerRepo.Delete(ctx, entityID); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventPartnerDeleted, id, "partner", p.Name,
			"Removed partner university "+p.Name).WithAdmin(adminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("partner deleted", logger.PartnerID(id))
	return nil
}
