// Package larder is the public entry point: it builds libraries with every
// standard resource type registered, and stores for persisting resources.
package larder

import (
	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/internal/resource"
	"github.com/mesh-intelligence/larder/internal/store"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Version is the library and CLI version.
const Version = "0.3.0"

// NewLibrary returns a frozen library with every standard type registered
// and an empty working set.
func NewLibrary() (types.Library, error) {
	lib := library.New()
	if err := resource.Register(lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// NewStore creates a new SQLite-indexed store that decodes resources with
// the standard types. The store is not attached; call Attach with a Config
// to initialize.
//
// Example:
//
//	st, err := larder.NewStore()
//	if err != nil { ... }
//	err = st.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".larder",
//	})
//	defer st.Detach()
func NewStore() (types.Store, error) {
	lib := library.New()
	if err := resource.Register(lib); err != nil {
		return nil, err
	}
	return store.New(lib), nil
}

// MakeResource wraps a model value in the resource type that carries it.
func MakeResource(name string, value any) (types.Resource, error) {
	return resource.MakeResource(name, value)
}
