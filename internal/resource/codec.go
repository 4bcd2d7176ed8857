package resource

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"go.yaml.in/yaml/v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// named carries the resource name shared by every concrete type.
type named struct {
	name string
}

func (n *named) Name() string        { return n.name }
func (n *named) SetName(name string) { n.name = name }

// subName names the i-th sub-resource produced from parent.
func subName(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func unsupportedFormat(tag string, format types.Format) error {
	return fmt.Errorf("%w: %s does not support %s", types.ErrUnsupportedFormat, tag, format)
}

func unsupportedType(tag, target string) error {
	return fmt.Errorf("%w: %s cannot produce %s", types.ErrUnsupportedType, tag, target)
}

func empty(tag, what string) error {
	return fmt.Errorf("%w: %s has no %s", types.ErrEmpty, tag, what)
}

// checkTarget fails unless target is one of allowed.
func checkTarget(tag, target string, allowed []string) error {
	if !slices.Contains(allowed, target) {
		return unsupportedType(tag, target)
	}
	return nil
}

// readText parses a whole text stream with read and rejects trailing tokens.
func readText(r io.Reader, read func(tr *types.TokenReader) error) error {
	tr := types.NewTokenReader(r)
	if err := read(tr); err != nil {
		return err
	}
	if tr.More() {
		tok, _ := tr.Next()
		return types.Malformed("trailing data starting at %q", tok)
	}
	return nil
}

// decodeDocument decodes one YAML document into v.
func decodeDocument(r io.Reader, v any) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		if errors.Is(err, types.ErrMalformed) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return types.Malformed("empty document")
		}
		return types.Malformed("document: %v", err)
	}
	return nil
}

// encodeDocument writes v as one YAML document.
func encodeDocument(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	return enc.Close()
}
