package query

import (
	"context"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/programme"
	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST PROGRAMMES QUERY
// Serves the programmes page: offerings grouped per category, each group
// ordered by start date with undated offerings last.
// ══════════════════════════════════════════════════════════════════════════════

// ListProgrammesQuery contains the parameters for a programme listing.
type ListProgrammesQuery struct {
	// Category keeps only one category (empty = all).
	Category string
}

// OfferingDTO is the offering shape the public API serves.
type OfferingDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	PartnerName string `json:"partnerName,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	DurationWks int    `json:"durationWeeks,omitempty"`
	Slots       int    `json:"slots,omitempty"`
}

// ListProgrammesResult is the grouped programme listing.
type ListProgrammesResult struct {
	Exchange    []OfferingDTO    `json:"exchange"`
	Research    []OfferingDTO    `json:"research"`
	Summer      []OfferingDTO    `json:"summer"`
	Counts      programme.Counts `json:"counts"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// ListProgrammesHandler serves programme listings.
type ListProgrammesHandler struct {
	programmeRepo programme.Repository
}

// NewListProgrammesHandler creates the programme listing handler.
func NewListProgrammesHandler(programmeRepo programme.Repository) *ListProgrammesHandler {
	return &ListProgrammesHandler{programmeRepo: programmeRepo}
}

// Handle executes the listing.
func (h *ListProgrammesHandler) Handle(ctx context.Context, query ListProgrammesQuery) (*ListProgrammesResult, error) {
	filter := programme.Filter{}
	if query.Category != "" {
		cat := programme.Category(query.Category)
		if !cat.IsValid() {
			return nil, shared.ErrInvalidProgramType
		}
		filter.Category = cat
	}

	offerings, err := h.programmeRepo.List(ctx, filter)
	if err != nil {
		return nil, shared.WrapError("query", "ListProgrammes", shared.ErrNotFound, "failed to list offerings", err)
	}

	groups := programme.GroupByCategory(offerings)
	return &ListProgrammesResult{
		Exchange:    toOfferingDTOs(groups[programme.CategoryExchange]),
		Research:    toOfferingDTOs(groups[programme.CategoryResearch]),
		Summer:      toOfferingDTOs(groups[programme.CategorySummer]),
		Counts:      programme.CountByCategory(offerings),
		GeneratedAt: timeutil.Now(),
	}, nil
}

func toOfferingDTOs(offerings []*programme.Offering) []OfferingDTO {
	dtos := make([]OfferingDTO, len(offerings))
	for i, o := range offerings {
		dtos[i] = OfferingDTO{
			ID:          o.ID.String(),
			Name:        o.Name,
			Category:    o.Category.String(),
			Description: o.Description,
			PartnerName: o.PartnerName,
			StartDate:   o.StartDate.String(),
			DurationWks: o.DurationWks,
			Slots:       o.Slots,
		}
	}
	return dtos
}
