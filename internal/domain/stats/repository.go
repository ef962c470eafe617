package stats

import "context"

// Repository is the persistence port for the stored stats snapshot. The
// table holds a single row.
type Repository interface {
	// Get returns the stored snapshot, or shared.ErrSnapshotNotFound when
	// no row has been saved yet.
	Get(ctx context.Context) (*Snapshot, error)

	// Save overwrites the stored snapshot.
	Save(ctx context.Context, s *Snapshot) error
}
