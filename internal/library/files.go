package library

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// DocumentExt is the extension of self-describing document files. Their
// envelope names the resource type, so any type with a document form can be
// stored under it.
const DocumentExt = ".yaml"

// envelope is the on-disk shape of a DocumentExt file.
type envelope struct {
	Type  string    `yaml:"type"`
	Name  string    `yaml:"name,omitempty"`
	Value yaml.Node `yaml:"value"`
}

// Decode builds a resource of type tag named name from data in format.
func (l *Library) Decode(tag, name string, format types.Format, data []byte) (types.Resource, error) {
	r, err := l.Make(tag)
	if err != nil {
		return nil, err
	}
	if err := r.Load(format, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("loading %s %s: %w", tag, name, err)
	}
	r.SetName(name)
	return r, nil
}

// Encode serializes r in its preferred format: text when supported, else
// the first format it declares.
func Encode(r types.Resource) (types.Format, []byte, error) {
	formats := r.Formats()
	if len(formats) == 0 {
		return "", nil, fmt.Errorf("%w: %s declares no formats", types.ErrUnsupportedFormat, r.Type())
	}
	format := formats[0]
	if slices.Contains(formats, types.FormatText) {
		format = types.FormatText
	}
	var buf bytes.Buffer
	if err := r.Save(format, &buf); err != nil {
		return "", nil, err
	}
	return format, buf.Bytes(), nil
}

// LoadFile reads the resource at path and adds it to the working set. The
// extension selects the type and format; the resource is named after the
// file unless a document envelope names it.
// Returns ErrUnknownFile for unregistered extensions.
func (l *Library) LoadFile(path string) (types.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var r types.Resource
	if ext == DocumentExt {
		r, err = l.readEnvelope(f, name)
	} else {
		r, err = l.readPlain(f, ext, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := l.Add(r); err != nil {
		return nil, err
	}
	Logger().Debug("loaded file", zap.String("path", path), zap.String("type", r.Type()))
	return r, nil
}

func (l *Library) readPlain(in io.Reader, ext, name string) (types.Resource, error) {
	l.regMu.RLock()
	b, ok := l.exts[ext]
	l.regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", types.ErrUnknownFile, ext)
	}
	r, err := l.Make(b.tag)
	if err != nil {
		return nil, err
	}
	if err := r.Load(b.format, in); err != nil {
		return nil, err
	}
	r.SetName(name)
	return r, nil
}

func (l *Library) readEnvelope(in io.Reader, name string) (types.Resource, error) {
	var env envelope
	if err := yaml.NewDecoder(in).Decode(&env); err != nil {
		return nil, types.Malformed("document envelope: %v", err)
	}
	if env.Type == "" {
		return nil, types.Malformed("document envelope has no type")
	}
	if env.Value.Kind == 0 {
		return nil, types.Malformed("document envelope has no value")
	}
	if env.Name != "" {
		name = env.Name
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if err := enc.Encode(&env.Value); err != nil {
		return nil, types.Malformed("document value: %v", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return l.Decode(env.Type, name, types.FormatDocument, buf.Bytes())
}

// SaveFile writes r to path. A DocumentExt path gets a document envelope;
// any other extension must be registered for r's type.
func (l *Library) SaveFile(r types.Resource, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	var buf bytes.Buffer
	if ext == DocumentExt {
		if err := writeEnvelope(&buf, r); err != nil {
			return err
		}
	} else {
		l.regMu.RLock()
		b, ok := l.exts[ext]
		l.regMu.RUnlock()
		if !ok || b.tag != r.Type() {
			return fmt.Errorf("%w: %s cannot be saved as %q", types.ErrUnknownFile, r.Type(), ext)
		}
		if err := r.Save(b.format, &buf); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	Logger().Debug("saved file", zap.String("path", path), zap.String("type", r.Type()))
	return nil
}

func writeEnvelope(w io.Writer, r types.Resource) error {
	var doc bytes.Buffer
	if err := r.Save(types.FormatDocument, &doc); err != nil {
		return err
	}
	env := envelope{Type: r.Type(), Name: r.Name()}
	if err := yaml.Unmarshal(doc.Bytes(), &env.Value); err != nil {
		return fmt.Errorf("re-reading %s document: %w", r.Type(), err)
	}
	// Unmarshal into a Node yields a DocumentNode; the envelope wants its
	// content.
	if env.Value.Kind == yaml.DocumentNode && len(env.Value.Content) == 1 {
		env.Value = *env.Value.Content[0]
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&env); err != nil {
		return err
	}
	return enc.Close()
}

// LoadDir loads every file in dir whose extension is registered, in
// directory order. Files with other extensions are skipped.
func (l *Library) LoadDir(dir string) ([]types.Resource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []types.Resource
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		r, err := l.LoadFile(filepath.Join(dir, e.Name()))
		if errors.Is(err, types.ErrUnknownFile) {
			Logger().Debug("skipping file", zap.String("file", e.Name()))
			continue
		}
		if err != nil {
			return out, err
		}
		out = append(out, r)
	}
	return out, nil
}
