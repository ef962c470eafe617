package postgres

import (
	"context"
	"fmt"

	"github.com/erio-hub/erio-dashboard/internal/domain/shared"
	"github.com/erio-hub/erio-dashboard/internal/domain/stats"
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS REPOSITORY IMPLEMENTATION
// The dashboard_stats table holds exactly one row (id = 1); Save upserts it.
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository implements stats.Repository for PostgreSQL.
type StatsRepository struct {
	conn *Connection
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(conn *Connection) *StatsRepository {
	return &StatsRepository{conn: conn}
}

// Get returns the stored snapshot.
func (r *StatsRepository) Get(ctx context.Context) (*stats.Snapshot, error) {
	query := `
		SELECT partner_universities, active_agreements, student_exchanges, events_this_year,
			   asia_pacific_pct, europe_pct, americas_pct,
			   exchange_programmes, research_programmes, summer_programmes,
			   engagement_score, updated_at
		FROM dashboard_stats
		WHERE id = 1
	`

	var s stats.Snapshot
	err := r.conn.QueryRow(ctx, query).Scan(
		&s.PartnerUniversities,
		&s.ActiveAgreements,
		&s.StudentExchanges,
		&s.EventsThisYear,
		&s.RegionalDistribution.AsiaPacific,
		&s.RegionalDistribution.Europe,
		&s.RegionalDistribution.Americas,
		&s.ProgramsOffered.Exchange,
		&s.ProgramsOffered.Research,
		&s.ProgramsOffered.Summer,
		&s.EngagementScore,
		&s.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get stats snapshot: %w", err)
	}

	return &s, nil
}

// Save upserts the snapshot row.
func (r *StatsRepository) Save(ctx context.Context, s *stats.Snapshot) error {
	query := `
		INSERT INTO dashboard_stats (
			id, partner_universities, active_agreements, student_exchanges, events_this_year,
			asia_pacific_pct, europe_pct, americas_pct,
			exchange_programmes, research_programmes, summer_programmes,
			engagement_score, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			partner_universities = EXCLUDED.partner_universities,
			active_agreements = EXCLUDED.active_agreements,
			student_exchanges = EXCLUDED.student_exchanges,
			events_this_year = EXCLUDED.events_this_year,
			asia_pacific_pct = EXCLUDED.asia_pacific_pct,
			europe_pct = EXCLUDED.europe_pct,
			americas_pct = EXCLUDED.americas_pct,
			exchange_programmes = EXCLUDED.exchange_programmes,
			research_programmes = EXCLUDED.research_programmes,
			summer_programmes = EXCLUDED.summer_programmes,
			engagement_score = EXCLUDED.engagement_score,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.conn.Exec(ctx, query,
		s.PartnerUniversities,
		s.ActiveAgreements,
		s.StudentExchanges,
		s.EventsThisYear,
		s.RegionalDistribution.AsiaPacific,
		s.RegionalDistribution.Europe,
		s.RegionalDistribution.Americas,
		s.ProgramsOffered.Exchange,
		s.ProgramsOffered.Research,
		s.ProgramsOffered.Summer,
		s.EngagementScore,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save stats snapshot: %w", err)
	}

	return nil
}
