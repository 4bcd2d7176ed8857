// Package convert is the generic conversion API. Every function works
// through the resource protocol alone: it asks a resource what it can
// become before asking it to become it, and never switches on concrete
// types.
package convert

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// CastResourceTypes returns the tags r can be cast to, in priority order.
// A resource without cast support can only be cast to its own type.
func CastResourceTypes(r types.Resource) []string {
	if c, ok := r.(types.Castable); ok {
		return c.CastTypes()
	}
	return []string{r.Type()}
}

// CanCastResource reports whether tag is one of CastResourceTypes(r).
func CanCastResource(r types.Resource, tag string) bool {
	return slices.Contains(CastResourceTypes(r), tag)
}

// CastResource reinterprets r as tag. Casting to r's own type returns a
// copy.
// Returns ErrUnsupportedType when tag is not a declared cast target; for
// resources without cast support the error also matches ErrNotCastable.
func CastResource(r types.Resource, tag string) (types.Resource, error) {
	if !CanCastResource(r, tag) {
		if _, ok := r.(types.Castable); !ok {
			return nil, fmt.Errorf("%w: %s to %s: %w", types.ErrNotCastable, r.Type(), tag, types.ErrUnsupportedType)
		}
		return nil, fmt.Errorf("%w: %s cannot be cast to %s", types.ErrUnsupportedType, r.Type(), tag)
	}
	if tag == r.Type() {
		return r.Copy(), nil
	}
	out, err := r.(types.Castable).Cast(tag)
	if err != nil {
		return nil, err
	}
	Logger().Debug("cast", zap.String("from", r.Type()), zap.String("to", tag), zap.String("name", r.Name()))
	return out, nil
}

// ExtractResourceTypes returns the tags r can be decomposed into.
// Returns ErrNotDecomposable for resources without decomposition support.
func ExtractResourceTypes(r types.Resource) ([]string, error) {
	d, ok := r.(types.Decomposable)
	if !ok {
		return nil, notDecomposable(r)
	}
	return d.ExtractTypes(), nil
}

// ExtractResources decomposes r into resources of type tag.
func ExtractResources(r types.Resource, tag string) types.Result {
	d, ok := r.(types.Decomposable)
	if !ok {
		return types.ResultOf(types.Decomposition{}, notDecomposable(r))
	}
	res := types.ResultOf(d.Extract(tag))
	logResult("extract", r, res)
	return res
}

// PackResources builds a new resource of template's type from subs.
// The template itself is not modified.
func PackResources(subs []types.Resource, template types.Resource) (types.Resource, error) {
	out := template.Copy()
	d, ok := out.(types.Decomposable)
	if !ok {
		return nil, notDecomposable(template)
	}
	if err := d.Pack(subs); err != nil {
		Logger().Debug("pack failed", zap.String("type", template.Type()), zap.Error(err))
		return nil, err
	}
	Logger().Debug("packed", zap.String("type", template.Type()), zap.Int("parts", len(subs)))
	return out, nil
}

// PackLibraryResources builds a resource of type tag from the library's
// working set: for each of the type's sub-types, in order, every resource of
// that type in insertion order. Sub-types with no resources are skipped, so
// types whose parts are optional still pack; when Pack then fails, the error
// also matches ErrNotFound and names the missing sub-types.
// Fails when tag has no factory or the library holds none of its parts.
func PackLibraryResources(lib types.Library, tag string) (types.Resource, error) {
	template, err := lib.Make(tag)
	if err != nil {
		return nil, err
	}
	d, ok := template.(types.Decomposable)
	if !ok {
		return nil, notDecomposable(template)
	}
	var subs []types.Resource
	var missing []string
	seen := make(map[string]bool)
	for _, sub := range d.SubTypes() {
		if seen[sub] {
			continue
		}
		seen[sub] = true
		found := lib.OfType(sub)
		if len(found) == 0 {
			missing = append(missing, sub)
			continue
		}
		subs = append(subs, found...)
	}
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: packing %s needs %s resources", types.ErrNotFound, tag, strings.Join(missing, " or "))
	}
	out, err := PackResources(subs, template)
	if err != nil && len(missing) > 0 {
		return nil, fmt.Errorf("%w: packing %s without %s resources: %w", types.ErrNotFound, tag, strings.Join(missing, ", "), err)
	}
	return out, err
}

// UnpackResource decomposes r canonically. When the canonical decomposition
// fails, each extract type is tried in priority order and the first
// non-empty result is returned as partial.
func UnpackResource(r types.Resource) types.Result {
	d, ok := r.(types.Decomposable)
	if !ok {
		return types.ResultOf(types.Decomposition{}, notDecomposable(r))
	}
	res := types.ResultOf(d.Unpack())
	if res.Successful() {
		logResult("unpack", r, res)
		return res
	}
	for _, tag := range d.ExtractTypes() {
		dec, err := d.Extract(tag)
		if err != nil || len(dec.Resources) == 0 {
			continue
		}
		reason := fmt.Sprintf("canonical decomposition failed (%v); extracted %s", res.Err, tag)
		if dec.Reason != "" {
			reason += ": " + dec.Reason
		}
		fallback := types.Result{Status: types.StatusPartial, Resources: dec.Resources, Reason: reason}
		logResult("unpack", r, fallback)
		return fallback
	}
	logResult("unpack", r, res)
	return res
}

func notDecomposable(r types.Resource) error {
	return fmt.Errorf("%w: %s", types.ErrNotDecomposable, r.Type())
}

func logResult(op string, r types.Resource, res types.Result) {
	fields := []zap.Field{
		zap.String("type", r.Type()),
		zap.String("name", r.Name()),
		zap.Stringer("status", res.Status),
		zap.Int("parts", len(res.Resources)),
	}
	if res.Err != nil {
		fields = append(fields, zap.Error(res.Err))
	}
	Logger().Debug(op, fields...)
}
