package ports

import (
	"context"
)

// ArtifactStore persists compiled component models. Artifacts are opaque
// bytes keyed by name; the codec that produced them is the caller's concern.
type ArtifactStore interface {
	// Save stores data under name, replacing any previous artifact.
	Save(ctx context.Context, name string, data []byte) error

	// Load retrieves the artifact stored under name.
	// Returns domain.ErrArtifactNotFound if it does not exist.
	Load(ctx context.Context, name string) ([]byte, error)

	// Delete removes the artifact. Deleting a missing artifact is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored artifacts.
	List(ctx context.Context) ([]string, error)
}
