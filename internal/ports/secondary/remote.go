package secondary

import (
	"context"
	"errors"
)

// Remote outcomes that callers branch on.
var (
	ErrRemoteNotFound     = errors.New("remote file not found")
	ErrRemoteConflict     = errors.New("remote revision conflict")
	ErrRemoteUnauthorized = errors.New("remote rejected the credential")
)

// RemoteFile is one fetched remote file.
type RemoteFile struct {
	Path     string
	Content  []byte
	Revision string
}

// RemoteStore defines the secondary port for a hosted file used as the
// shared copy of a dataset.
type RemoteStore interface {
	// Fetch downloads the file at path. Returns ErrRemoteNotFound when it
	// does not exist.
	Fetch(ctx context.Context, path string) (*RemoteFile, error)

	// Put replaces the file at path. revision is the token of the version
	// being replaced, or "" to create the file. Returns the new revision.
	Put(ctx context.Context, path string, content []byte, revision, message string) (string, error)
}
