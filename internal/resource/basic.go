package resource

import (
	"io"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Basic is a single-value resource. Load and Save delegate to the value's
// own text codec or to its YAML encoding. It has no decomposition.
type Basic struct {
	named
	tag   string
	value types.Value
	blank func() types.Value
}

// NewBasic returns an empty Basic resource of type tag whose values are
// created by blank.
func NewBasic(tag string, blank func() types.Value) *Basic {
	return &Basic{tag: tag, value: blank(), blank: blank}
}

// BasicFactory returns a types.Factory producing empty Basic resources.
func BasicFactory(tag string, blank func() types.Value) types.Factory {
	return func() types.Resource { return NewBasic(tag, blank) }
}

func (b *Basic) Type() string { return b.tag }

// Value returns the wrapped value. Callers must not retain it across
// mutations of the resource.
func (b *Basic) Value() types.Value { return b.value }

// SetValue stores a copy of v.
func (b *Basic) SetValue(v types.Value) { b.value = v.Clone() }

func (b *Basic) Formats() []types.Format {
	return []types.Format{types.FormatText, types.FormatDocument}
}

func (b *Basic) Load(format types.Format, r io.Reader) error {
	v := b.blank()
	switch format {
	case types.FormatText:
		if err := readText(r, v.ReadText); err != nil {
			return err
		}
	case types.FormatDocument:
		if err := decodeDocument(r, v); err != nil {
			return err
		}
	default:
		return unsupportedFormat(b.tag, format)
	}
	b.value = v
	return nil
}

func (b *Basic) Save(format types.Format, w io.Writer) error {
	switch format {
	case types.FormatText:
		return b.value.WriteText(w)
	case types.FormatDocument:
		return encodeDocument(w, b.value)
	default:
		return unsupportedFormat(b.tag, format)
	}
}

func (b *Basic) Copy() types.Resource {
	return &Basic{named: b.named, tag: b.tag, value: b.value.Clone(), blank: b.blank}
}

func (b *Basic) Equal(other types.Resource) bool {
	o, ok := other.(*Basic)
	return ok && o.tag == b.tag && b.value.Equal(o.value)
}

// ValueOf returns the value of a Basic resource when it has type V.
func ValueOf[V types.Value](r types.Resource) (V, bool) {
	var zero V
	b, ok := r.(*Basic)
	if !ok {
		return zero, false
	}
	v, ok := b.value.(V)
	return v, ok
}
