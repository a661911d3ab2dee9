package secondary

import "context"

// Sync journal actions.
const (
	SyncActionPull = "pull"
	SyncActionPush = "push"
)

// Sync journal outcomes.
const (
	SyncOutcomeOK       = "ok"
	SyncOutcomeNoop     = "noop"
	SyncOutcomeNotFound = "not_found"
	SyncOutcomeConflict = "conflict"
	SyncOutcomeFailed   = "failed"
)

// SyncJournal defines the secondary port for the durable record of sync
// attempts.
type SyncJournal interface {
	// Record persists one sync attempt. ID and CreatedAt are filled in when
	// empty.
	Record(ctx context.Context, event *SyncEventRecord) error

	// LastSuccess returns the most recent ok or noop event of the dataset,
	// or nil when the dataset never synced.
	LastSuccess(ctx context.Context, dataset string) (*SyncEventRecord, error)

	// List returns the most recent events of the dataset, newest first.
	// A limit of zero returns every event.
	List(ctx context.Context, dataset string, limit int) ([]*SyncEventRecord, error)
}

// SyncEventRecord represents one sync attempt as stored in persistence.
type SyncEventRecord struct {
	ID          string
	Dataset     string
	Action      string
	Outcome     string
	Revision    string // Empty string means null
	Fingerprint string // Empty string means null
	Detail      string
	CreatedAt   string
}

// Succeeded reports whether the event left local and remote in agreement.
func (e *SyncEventRecord) Succeeded() bool {
	return e.Outcome == SyncOutcomeOK || e.Outcome == SyncOutcomeNoop
}
