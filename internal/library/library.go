// Package library holds the resource type registry and the working set of
// named resources. A Library is an explicit value; nothing in this package
// is global except the logger.
package library

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Extension binds a file extension to the format used to read and write it.
// Ext includes the leading dot.
type Extension struct {
	Ext    string
	Format types.Format
}

type extBinding struct {
	tag    string
	format types.Format
}

// Library is a type registry plus a working set of resources. Register every
// type, then Freeze; after that the registry is read-only and safe for
// concurrent use. The working set is guarded by its own lock.
type Library struct {
	regMu     sync.RWMutex
	frozen    bool
	order     []string
	factories map[string]types.Factory
	exts      map[string]extBinding
	tagExts   map[string][]Extension

	mu        sync.RWMutex
	resources []types.Resource
}

// New returns an empty, unfrozen library.
func New() *Library {
	return &Library{
		factories: make(map[string]types.Factory),
		exts:      make(map[string]extBinding),
		tagExts:   make(map[string][]Extension),
	}
}

// Register adds a factory for tag together with the file extensions that
// hold resources of that type.
// Returns ErrRegistryFrozen after Freeze and ErrDuplicateType if tag or one
// of the extensions is already registered.
func (l *Library) Register(tag string, factory types.Factory, exts ...Extension) error {
	l.regMu.Lock()
	defer l.regMu.Unlock()

	if l.frozen {
		return fmt.Errorf("%w: cannot register %s", types.ErrRegistryFrozen, tag)
	}
	if !types.ValidToken(tag) || factory == nil {
		return fmt.Errorf("%w: bad registration for %q", types.ErrUnknownType, tag)
	}
	if _, dup := l.factories[tag]; dup {
		return fmt.Errorf("%w: %s", types.ErrDuplicateType, tag)
	}
	for _, e := range exts {
		if _, dup := l.exts[strings.ToLower(e.Ext)]; dup {
			return fmt.Errorf("%w: extension %s", types.ErrDuplicateType, e.Ext)
		}
	}
	l.factories[tag] = factory
	l.order = append(l.order, tag)
	for _, e := range exts {
		l.exts[strings.ToLower(e.Ext)] = extBinding{tag: tag, format: e.Format}
		l.tagExts[tag] = append(l.tagExts[tag], e)
	}
	Logger().Debug("registered type", zap.String("type", tag), zap.Int("extensions", len(exts)))
	return nil
}

// Freeze makes the registry read-only.
func (l *Library) Freeze() {
	l.regMu.Lock()
	l.frozen = true
	l.regMu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (l *Library) Frozen() bool {
	l.regMu.RLock()
	defer l.regMu.RUnlock()
	return l.frozen
}

// Make returns a new blank resource of type tag.
// Returns ErrUnknownType if tag is not registered.
func (l *Library) Make(tag string) (types.Resource, error) {
	l.regMu.RLock()
	f, ok := l.factories[tag]
	l.regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownType, tag)
	}
	return f(), nil
}

// Types returns the registered tags in registration order.
func (l *Library) Types() []string {
	l.regMu.RLock()
	defer l.regMu.RUnlock()
	return slices.Clone(l.order)
}

// Extensions returns the file extensions registered for tag.
func (l *Library) Extensions(tag string) []Extension {
	l.regMu.RLock()
	defer l.regMu.RUnlock()
	return slices.Clone(l.tagExts[tag])
}

// Add appends r to the working set.
// Returns ErrInvalidName for an empty or whitespace-bearing name and
// ErrUnknownType for unregistered types.
func (l *Library) Add(r types.Resource) error {
	if !types.ValidToken(r.Name()) {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, r.Name())
	}
	l.regMu.RLock()
	_, known := l.factories[r.Type()]
	l.regMu.RUnlock()
	if !known {
		return fmt.Errorf("%w: %s", types.ErrUnknownType, r.Type())
	}

	l.mu.Lock()
	l.resources = append(l.resources, r)
	l.mu.Unlock()
	Logger().Debug("added resource", zap.String("type", r.Type()), zap.String("name", r.Name()))
	return nil
}

// OfType returns every working-set resource of type tag, in insertion order.
func (l *Library) OfType(tag string) []types.Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []types.Resource
	for _, r := range l.resources {
		if r.Type() == tag {
			out = append(out, r)
		}
	}
	return out
}

// Lookup returns the single resource of type tag named name.
// Returns ErrNotFound if there is none and ErrAmbiguousName if several
// resources share the name.
func (l *Library) Lookup(tag, name string) (types.Resource, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var found types.Resource
	for _, r := range l.resources {
		if r.Type() != tag || r.Name() != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s %s", types.ErrAmbiguousName, tag, name)
		}
		found = r
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s %s", types.ErrNotFound, tag, name)
	}
	return found, nil
}

// Remove deletes every resource of type tag named name.
// Returns ErrNotFound if nothing matched.
func (l *Library) Remove(tag, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := len(l.resources)
	l.resources = slices.DeleteFunc(l.resources, func(r types.Resource) bool {
		return r.Type() == tag && r.Name() == name
	})
	if len(l.resources) == n {
		return fmt.Errorf("%w: %s %s", types.ErrNotFound, tag, name)
	}
	return nil
}

// Len returns the size of the working set.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.resources)
}

// All returns the working set in insertion order.
func (l *Library) All() []types.Resource {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.resources)
}
