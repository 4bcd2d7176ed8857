package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/internal/resource"
	"github.com/mesh-intelligence/larder/internal/store"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// session is an attached store plus a library whose working set holds every
// stored resource.
type session struct {
	lib   *library.Library
	store *store.Store
}

// openSession resolves the data directory, attaches the store and loads it
// into a fresh library. The caller must defer close.
func openSession() (*session, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	lib := library.New()
	if err := resource.Register(lib); err != nil {
		return nil, err
	}

	st := store.New(lib)
	cfg := types.Config{Backend: configBackend, DataDir: dataDir}
	if cfg.Backend == "" {
		cfg.Backend = defaultBackend
	}
	if err := st.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	if _, err := st.LoadInto(lib); err != nil {
		st.Detach()
		return nil, fmt.Errorf("load store: %w", err)
	}
	return &session{lib: lib, store: st}, nil
}

func (s *session) close() {
	s.store.Detach()
}

// save stores rs and reports their IDs on w.
func (s *session) save(w io.Writer, rs []types.Resource) error {
	for _, r := range rs {
		id, err := s.store.Put(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "saved %s %s as %s\n", r.Type(), r.Name(), id)
	}
	return nil
}

// resourceJSON is the --json rendering of one resource.
type resourceJSON struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Data   string `json:"data"`
}

// printResources writes each resource under a "# Type name" header, in its
// preferred format, or as a JSON array with --json.
func printResources(w io.Writer, rs []types.Resource) error {
	if flagJSON {
		out := make([]resourceJSON, 0, len(rs))
		for _, r := range rs {
			format, data, err := library.Encode(r)
			if err != nil {
				return err
			}
			out = append(out, resourceJSON{Type: r.Type(), Name: r.Name(), Format: string(format), Data: string(data)})
		}
		return writeJSON(w, out)
	}
	for _, r := range rs {
		_, data, err := library.Encode(r)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "# %s %s\n%s", r.Type(), r.Name(), data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
	return nil
}

// printResult reports a conversion result's status then its resources.
func printResult(w io.Writer, res types.Result) error {
	if !flagJSON {
		fmt.Fprintf(w, "status: %s\n", res.Status)
		if res.Reason != "" {
			fmt.Fprintf(w, "reason: %s\n", res.Reason)
		}
	}
	return printResources(w, res.Resources)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseRef splits "Type:name".
func parseRef(ref string) (tag, name string, err error) {
	tag, name, ok := strings.Cut(ref, ":")
	if !ok || tag == "" || name == "" {
		return "", "", fmt.Errorf("%w: %q is not Type:name", errUsage, ref)
	}
	return tag, name, nil
}
