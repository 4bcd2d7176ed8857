package types

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TokenReader reads whitespace-delimited tokens from a text stream.
type TokenReader struct {
	scanner *bufio.Scanner
	peeked  string
	hasPeek bool
	err     error
}

// NewTokenReader returns a TokenReader over r.
func NewTokenReader(r io.Reader) *TokenReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	s.Split(bufio.ScanWords)
	return &TokenReader{scanner: s}
}

// More reports whether another token is available.
func (tr *TokenReader) More() bool {
	if tr.hasPeek {
		return true
	}
	if !tr.scanner.Scan() {
		tr.err = tr.scanner.Err()
		return false
	}
	tr.peeked = tr.scanner.Text()
	tr.hasPeek = true
	return true
}

// Next returns the next token. Running out of input is ErrMalformed.
func (tr *TokenReader) Next() (string, error) {
	if !tr.More() {
		if tr.err != nil {
			return "", fmt.Errorf("reading token: %w", tr.err)
		}
		return "", Malformed("unexpected end of input")
	}
	tr.hasPeek = false
	return tr.peeked, nil
}

// Expect consumes the next token and fails unless it equals word.
func (tr *TokenReader) Expect(word string) error {
	tok, err := tr.Next()
	if err != nil {
		return err
	}
	if tok != word {
		return Malformed("expected %q, got %q", word, tok)
	}
	return nil
}

// Float parses the next token as a float64.
func (tr *TokenReader) Float() (float64, error) {
	tok, err := tr.Next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, Malformed("bad number %q", tok)
	}
	return v, nil
}

// Int parses the next token as an int.
func (tr *TokenReader) Int() (int, error) {
	tok, err := tr.Next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, Malformed("bad integer %q", tok)
	}
	return v, nil
}

// Count parses a non-negative element count.
func (tr *TokenReader) Count() (int, error) {
	n, err := tr.Int()
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, Malformed("negative count %d", n)
	}
	return n, nil
}

// maxPrealloc bounds the capacity reserved from a count read off the
// input. Slices grow past it as elements actually arrive.
const maxPrealloc = 1024

// CapHint returns a safe initial capacity for n declared elements.
func CapHint(n int) int {
	return min(n, maxPrealloc)
}

// Floats reads exactly n floats.
func (tr *TokenReader) Floats(n int) ([]float64, error) {
	out := make([]float64, 0, CapHint(n))
	for len(out) < n {
		v, err := tr.Float()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// FormatFloat renders v in the shortest form that parses back exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// JoinFloats renders vals space-separated.
func JoinFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = FormatFloat(v)
	}
	return strings.Join(parts, " ")
}

// ParseFloats parses a space-separated list of floats.
func ParseFloats(s string) ([]float64, error) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, Malformed("bad number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

// ValidToken reports whether s can be written as a single text token.
func ValidToken(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}
