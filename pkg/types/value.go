package types

import "io"

// Value is a domain payload that carries its own text codec.
// Single-value resources delegate Load and Save to it; the document form is
// produced by YAML-encoding the value itself, so implementations are
// pointers to YAML-friendly types.
type Value interface {
	// WriteText writes the whitespace-delimited text form.
	WriteText(w io.Writer) error

	// ReadText replaces the value with one parsed from tr.
	ReadText(tr *TokenReader) error

	// Clone returns an independent deep copy.
	Clone() Value

	// Equal reports value equality.
	Equal(other Value) bool
}
