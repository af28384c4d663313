package reconcile

import "context"

// Adapter defines the model-specific side of a reconciliation: how each side
// is loaded and how two copies of an entity are compared.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g. "profile").
	Name() string

	// LoadLocal returns the local entities indexed by key.
	LoadLocal(ctx context.Context) (map[string]Item, error)

	// LoadRemote returns the remote entities for keys, indexed by key. Keys
	// the remote store does not know are left out of the map.
	LoadRemote(ctx context.Context, keys []string) (map[string]Item, error)

	// ResolveName returns the display name given either copy. Either may be nil.
	ResolveName(local, remote Item) string

	// CompareFields returns one description per differing field, naming the
	// field and both values. Both items are non-nil.
	CompareFields(local, remote Item) []string

	// Metadata returns extras to attach to the result. Either item may be nil.
	Metadata(local, remote Item) map[string]string
}
