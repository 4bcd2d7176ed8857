package types

import "io"

// Format selects one external representation of a resource.
type Format string

// Supported serialization formats.
const (
	// FormatText is the human-readable, whitespace-delimited stream form.
	FormatText Format = "text"
	// FormatDocument is the structured hierarchical document form (YAML).
	FormatDocument Format = "document"
	// FormatMarkup is the XML element tree form used by path and
	// contact-bearing types.
	FormatMarkup Format = "markup"
)

// Resource is a named, typed, serializable value.
// Equality ignores the name: two resources are equal when they have the same
// type tag and equal payloads.
type Resource interface {
	// Name returns the resource name. Names are not unique across types.
	Name() string

	// SetName renames the resource.
	SetName(name string)

	// Type returns the immutable type tag, e.g. "LinearPath".
	Type() string

	// Formats lists the formats Load and Save accept, preferred first.
	Formats() []Format

	// Load replaces the payload with the value decoded from r.
	// Returns ErrUnsupportedFormat for formats not listed by Formats and
	// ErrMalformed for bad input. The receiver is unchanged on failure.
	Load(format Format, r io.Reader) error

	// Save writes the payload to w in the given format.
	// Returns ErrUnsupportedFormat for formats not listed by Formats.
	Save(format Format, w io.Writer) error

	// Copy returns an independent deep copy, name included.
	Copy() Resource

	// Equal reports payload equality with other.
	Equal(other Resource) bool
}

// Factory returns a new, empty resource of one concrete type.
type Factory func() Resource

// Castable is implemented by resources that can be reinterpreted as other
// types without loss.
type Castable interface {
	Resource

	// CastTypes lists the accepted target tags in priority order. The
	// receiver's own tag is always first.
	CastTypes() []string

	// Cast returns a new resource of the requested type carrying the same
	// information. Returns ErrUnsupportedType when tag is not in CastTypes.
	Cast(tag string) (Resource, error)
}

// Decomposable is implemented by compound resources that can be split into
// typed sub-resources and assembled back from them.
type Decomposable interface {
	Resource

	// SubTypes lists, in order, the distinct tags the canonical
	// decomposition yields.
	SubTypes() []string

	// ExtractTypes lists every tag Extract accepts, in priority order.
	ExtractTypes() []string

	// Extract decomposes the receiver into resources of type tag.
	// Returns ErrUnsupportedType when tag is not in ExtractTypes and ErrEmpty
	// when the receiver holds nothing of that type.
	Extract(tag string) (Decomposition, error)

	// Pack replaces the payload with one assembled from subs, which must
	// match the canonical decomposition. Returns a *PackError on mismatch;
	// the receiver is unchanged on failure.
	Pack(subs []Resource) error

	// Unpack performs the canonical decomposition. Incomplete is set when
	// the type is known to drop information.
	Unpack() (Decomposition, error)
}

// Decomposition is the output of Extract or Unpack.
type Decomposition struct {
	Resources []Resource
	// Incomplete is set when packing Resources will not reproduce the
	// source resource.
	Incomplete bool
	// Reason names what an incomplete decomposition drops.
	Reason string
}

// Library is the type registry consumed by the generic conversion layer.
// Implements the prototype map and the working collection.
type Library interface {
	// Make returns a blank resource for tag.
	// Returns ErrUnknownType when no factory is registered.
	Make(tag string) (Resource, error)

	// Types returns the registered tags in registration order.
	Types() []string

	// Add appends r to the working collection of its type.
	Add(r Resource) error

	// OfType returns the working collection for tag in insertion order.
	OfType(tag string) []Resource

	// Lookup returns the single resource of type tag named name.
	// Returns ErrNotFound or ErrAmbiguousName.
	Lookup(tag, name string) (Resource, error)
}
