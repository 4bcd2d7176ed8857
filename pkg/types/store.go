package types

// Store is backend-agnostic persistence for resources. Callers attach to a
// backend, store and fetch resources, and detach when done.
type Store interface {
	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist; returns ErrAlreadyAttached
	// if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, other operations return ErrStoreDetached.
	Detach() error

	// Put serializes r and returns its new ID.
	Put(r Resource) (string, error)

	// Get decodes the resource stored under id.
	// Returns ErrNotFound if no resource has that ID.
	Get(id string) (Resource, error)

	// Delete removes the resource stored under id.
	Delete(id string) error

	// Fetch decodes every stored resource of type tag in insertion order.
	// An empty tag fetches everything.
	Fetch(tag string) ([]Resource, error)
}
