package command

import (
	"context"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/internal/domain/stats"
	"github.com/erio-hub/erio-dashboard/pkg/logger"
	"github.com/erio-hub/erio-dashboard/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STATS COMMAND
// Overwrites the stored dashboard snapshot from the admin stats form. The
// snapshot is what the public dashboard falls back to for figures that
// cannot be derived live, most notably the student-exchange total.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStatsCommand carries the full snapshot the admin form submits.
type UpdateStatsCommand struct {
	PartnerUniversities int
	ActiveAgreements    int
	StudentExchanges    int
	EventsThisYear      int
	AsiaPacificPct      int
	EuropePct           int
	AmericasPct         int
	ExchangeProgrammes  int
	ResearchProgrammes  int
	SummerProgrammes    int
	EngagementScore     float64
	AdminID             string
}

// UpdateStatsHandler stores the snapshot.
type UpdateStatsHandler struct {
	statsRepo      stats.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewUpdateStatsHandler creates the stats update handler.
func NewUpdateStatsHandler(
	statsRepo stats.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *UpdateStatsHandler {
	if log == nil {
		log = logger.Default()
	}
	return &UpdateStatsHandler{statsRepo: statsRepo, eventPublisher: eventPublisher, log: log}
}

// Handle validates and stores the snapshot.
func (h *UpdateStatsHandler) Handle(ctx context.Context, cmd UpdateStatsCommand) error {
	snapshot := &stats.Snapshot{
		PartnerUniversities: cmd.PartnerUniversities,
		ActiveAgreements:    cmd.ActiveAgreements,
		StudentExchanges:    cmd.StudentExchanges,
		EventsThisYear:      cmd.EventsThisYear,
		RegionalDistribution: stats.Distribution{
			AsiaPacific: cmd.AsiaPacificPct,
			Europe:      cmd.EuropePct,
			Americas:    cmd.AmericasPct,
		},
		ProgramsOffered: stats.ProgrammeCounts{
			Exchange: cmd.ExchangeProgrammes,
			Research: cmd.ResearchProgrammes,
			Summer:   cmd.SummerProgrammes,
		},
		EngagementScore: cmd.EngagementScore,
		UpdatedAt:       timeutil.Now(),
	}

	if err := snapshot.Validate(); err != nil {
		return err
	}

	if err := h.statsRepo.Save(ctx, snapshot); err != nil {
		return err
	}

	if h.eventPublisher != nil {
		evt := shared.NewEntityChangedEvent(shared.EventStatsUpdated, "dashboard-stats", "stats",
			"dashboard figures", "Updated dashboard figures").WithAdmin(cmd.AdminID)
		_ = h.eventPublisher.Publish(evt)
	}

	h.log.Info("dashboard snapshot updated", logger.AdminID(cmd.AdminID))
	return nil
}
