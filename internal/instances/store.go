package instances

import "context"

// Store owns persisted instance records. Insert must enforce name
// uniqueness atomically at the storage layer: the availability check and
// the claim are not serialized in-process, so a concurrent loser surfaces
// as ErrDuplicate rather than a silent double create.
type Store interface {
	// FindByName returns the record for an exact name, or ErrNotFound.
	FindByName(ctx context.Context, name string) (Instance, error)
	// Insert persists a new record, assigning timestamps, or returns
	// ErrDuplicate when the name is already claimed.
	Insert(ctx context.Context, inst Instance) (Instance, error)
	// ListAll returns every record ordered ascending by name.
	ListAll(ctx context.Context) ([]Instance, error)
}
