package query

import (
	"context"
	"errors"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/partner"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// BROWSE PARTNERS QUERY
// Lists partner universities for the public directory and the world map.
// Supports country filtering, the active-agreement filter and pagination.
// ══════════════════════════════════════════════════════════════════════════════

// BrowsePartnersQuery contains the parameters for a partner listing.
type BrowsePartnersQuery struct {
	// Country filters to one country (empty = all).
	Country string

	// ActiveOnly keeps only partners whose agreement is in force today.
	ActiveOnly bool

	// Limit is the page size (default 50, max 200).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// Validate checks and normalizes the query parameters.
func (q *BrowsePartnersQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	return nil
}

// PartnerDTO is the partner shape the public API serves.
type PartnerDTO struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Country     string   `json:"country"`
	City        string   `json:"city,omitempty"`
	Lat         float64  `json:"lat,omitempty"`
	Lng         float64  `json:"lng,omitempty"`
	Students    int      `json:"students"`
	Programs    []string `json:"programs,omitempty"`
	Established int      `json:"established,omitempty"`
	Type        string   `json:"type,omitempty"`
	SignDate    string   `json:"signDate,omitempty"`
	ExpiryDate  string   `json:"expiryDate,omitempty"`
	Region      string   `json:"region,omitempty"`
	SubRegion   string   `json:"subRegion,omitempty"`
	Active      bool     `json:"active"`
}

// BrowsePartnersResult is the paged partner listing.
type BrowsePartnersResult struct {
	Partners    []PartnerDTO `json:"partners"`
	TotalCount  int          `json:"totalCount"`
	ActiveCount int          `json:"activeCount"`
	GeneratedAt time.Time    `json:"generatedAt"`
	HasMore     bool         `json:"hasMore"`
}

// BrowsePartnersHandler serves partner listings.
type BrowsePartnersHandler struct {
	partnerRepo partner.Repository
}

// NewBrowsePartnersHandler creates the partner listing handler.
func NewBrowsePartnersHandler(partnerRepo partner.Repository) *BrowsePartnersHandler {
	return &BrowsePartnersHandler{partnerRepo: partnerRepo}
}

// Handle executes the listing.
func (h *BrowsePartnersHandler) Handle(ctx context.Context, query BrowsePartnersQuery) (*BrowsePartnersResult, error) {
	if err := query.Validate(); err != nil {
		return nil, shared.WrapError("query", "BrowsePartners", shared.ErrValidation, err.Error(), err)
	}

	partners, err := h.partnerRepo.List(ctx, partner.Filter{
		Country:    query.Country,
		ActiveOnly: query.ActiveOnly,
		Limit:      query.Limit,
		Offset:     query.Offset,
	})
	if err != nil {
		return nil, shared.WrapError("query", "BrowsePartners", shared.ErrNotFound, "failed to list partners", err)
	}

	total, err := h.partnerRepo.Count(ctx)
	if err != nil {
		total = len(partners)
	}

	today := timeutil.Today()
	dtos := make([]PartnerDTO, len(partners))
	activeCount := 0
	for i, p := range partners {
		dtos[i] = toPartnerDTO(p, today)
		if dtos[i].Active {
			activeCount++
		}
	}

	return &BrowsePartnersResult{
		Partners:    dtos,
		TotalCount:  total,
		ActiveCount: activeCount,
		GeneratedAt: timeutil.Now(),
		HasMore:     query.Offset+len(partners) < total,
	}, nil
}

// GetPartnerHandler serves a single partner.
type GetPartnerHandler struct {
	partnerRepo partner.Repository
}

// NewGetPartnerHandler creates the single-partner handler.
func NewGetPartnerHandler(partnerRepo partner.Repository) *GetPartnerHandler {
	return &GetPartnerHandler{partnerRepo: partnerRepo}
}

// Handle fetches one partner by ID.
func (h *GetPartnerHandler) Handle(ctx context.Context, id string) (*PartnerDTO, error) {
	entityID := shared.EntityID(id)
	if !entityID.IsValid() {
		return nil, shared.ErrPartnerNotFound
	}
	p, err := h.partnerRepo.GetByID(ctx, entityID)
	if err != nil {
		return nil, err
	}
	dto := toPartnerDTO(p, timeutil.Today())
	return &dto, nil
}

func toPartnerDTO(p *partner.Partner, today timeutil.ISODate) PartnerDTO {
	return PartnerDTO{
		ID:          p.ID.String(),
		Name:        p.Name,
		Country:     p.Country,
		City:        p.City,
		Lat:         p.Coordinates.Lat,
		Lng:         p.Coordinates.Lng,
		Students:    p.Students,
		Programs:    p.Programs,
		Established: p.Established,
		Type:        p.Type.String(),
		SignDate:    p.SignDate.String(),
		ExpiryDate:  p.ExpiryDate.String(),
		Region:      p.Region().String(),
		SubRegion:   p.SubRegion().Label(),
		Active:      p.HasActiveAgreementOn(today),
	}
}
