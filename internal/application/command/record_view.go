package command

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/erio-hub/erio-dashboard/internal/domain/views"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD VIEW COMMAND
// Registers a public-site visitor session for the view counter. A browser
// sends its session ID on page load; a session counts once per Davao day.
// ══════════════════════════════════════════════════════════════════════════════

// RecordViewCommand carries the visitor session. An empty SessionID gets a
// fresh one, which the caller hands back to the browser.
type RecordViewCommand struct {
	SessionID string
}

// RecordViewResult reports the outcome, including the session ID to keep.
type RecordViewResult struct {
	SessionID string `json:"sessionId"`
	Counted   bool   `json:"counted"`
	Total     int    `json:"total"`
}

// RecordViewHandler records visitor sessions.
type RecordViewHandler struct {
	tracker views.Tracker
	log     *logger.Logger
}

// NewRecordViewHandler creates the view recording handler.
func NewRecordViewHandler(tracker views.Tracker, log *logger.Logger) *RecordViewHandler {
	if log == nil {
		log = logger.Default()
	}
	return &RecordViewHandler{tracker: tracker, log: log}
}

// Handle records the session. Tracker failures degrade to an uncounted
// response; losing a view beats failing a page load.
func (h *RecordViewHandler) Handle(ctx context.Context, cmd RecordViewCommand) (*RecordViewResult, error) {
	sessionID := strings.TrimSpace(cmd.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result := &RecordViewResult{SessionID: sessionID}
	if h.tracker == nil {
		return result, nil
	}

	counted, err := h.tracker.Record(ctx, sessionID, timeutil.Today())
	if err != nil {
		h.log.Warn("view not recorded", logger.Err(err))
		return result, nil
	}
	result.Counted = counted

	if total, err := h.tracker.Total(ctx); err == nil {
		result.Total = total
	}
	return result, nil
}
