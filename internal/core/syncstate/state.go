// Package syncstate models the per-session remote sync state machine.
package syncstate

// State is the sync state of one dataset in the current session.
type State string

const (
	// Unconfigured means no credential: every operation is local-only.
	Unconfigured State = "unconfigured"
	// Configured means a credential is present but nothing synced yet, or
	// the last attempt failed.
	Configured State = "configured"
	// Synced means the last pull or push in this session succeeded.
	Synced State = "synced"
)

// Event drives a transition. The credential is read once per session, so
// Initial alone decides between Unconfigured and Configured.
type Event string

const (
	SyncSucceeded Event = "sync_succeeded"
	SyncFailed    Event = "sync_failed"
)

// Initial returns the starting state for a session.
func Initial(hasCredential bool) State {
	if hasCredential {
		return Configured
	}
	return Unconfigured
}

// Next returns the state after e. Sync events are ignored while
// unconfigured; a failure keeps the credential and falls back to Configured.
func Next(s State, e Event) State {
	switch e {
	case SyncSucceeded:
		if s == Unconfigured {
			return s
		}
		return Synced
	case SyncFailed:
		if s == Unconfigured {
			return s
		}
		return Configured
	}
	return s
}
