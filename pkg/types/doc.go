// Package types defines the Resource, Castable, Decomposable and Library
// interfaces, the serialization formats, the conversion result types, and
// the standard errors for the larder resource system.
//
// Concrete resources live in internal/resource; the generic conversion
// functions that operate purely through these interfaces live in
// pkg/convert.
package types
