package query

import (
	"context"
	"time"

	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET VIEW TOTAL QUERY
// Serves the public visitor counter: all-time unique daily sessions plus
// today's count.
// ══════════════════════════════════════════════════════════════════════════════

// ViewTotalResult is the visitor counter payload.
type ViewTotalResult struct {
	Total       int       `json:"total"`
	Today       int       `json:"today"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// GetViewTotalHandler serves the visitor counter.
type GetViewTotalHandler struct {
	tracker views.Tracker
}

// NewGetViewTotalHandler creates the visitor counter handler.
func NewGetViewTotalHandler(tracker views.Tracker) *GetViewTotalHandler {
	return &GetViewTotalHandler{tracker: tracker}
}

// Handle reads the counter. Counter failures degrade to zero rather than
// erroring, matching the rest of the public read surface.
func (h *GetViewTotalHandler) Handle(ctx context.Context) (*ViewTotalResult, error) {
	result := &ViewTotalResult{GeneratedAt: timeutil.Now()}
	if h.tracker == nil {
		return result, nil
	}

	if total, err := h.tracker.Total(ctx); err == nil {
		result.Total = total
	}
	if today, err := h.tracker.CountOn(ctx, timeutil.Today()); err == nil {
		result.Today = today
	}
	return result, nil
}
