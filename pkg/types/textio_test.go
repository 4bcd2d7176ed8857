package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenReader(t *testing.T) {
	tr := NewTokenReader(strings.NewReader("  OFF\n3 -1.5\t2e3\nname\n"))

	require.NoError(t, tr.Expect("OFF"))
	n, err := tr.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	xs, err := tr.Floats(2)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.5, 2000}, xs)

	assert.True(t, tr.More())
	tok, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "name", tok)

	assert.False(t, tr.More())
	_, err = tr.Next()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTokenReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		read  func(*TokenReader) error
	}{
		{"bad float", "abc", func(tr *TokenReader) error { _, err := tr.Float(); return err }},
		{"bad int", "1.5", func(tr *TokenReader) error { _, err := tr.Int(); return err }},
		{"negative count", "-2", func(tr *TokenReader) error { _, err := tr.Count(); return err }},
		{"short floats", "1 2", func(tr *TokenReader) error { _, err := tr.Floats(3); return err }},
		{"wrong keyword", "ON", func(tr *TokenReader) error { return tr.Expect("OFF") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.read(NewTokenReader(strings.NewReader(tt.input)))
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestFloatFormatting(t *testing.T) {
	vals := []float64{0, 1, -0.25, 1e-9, 0.1 + 0.2}
	got, err := ParseFloats(JoinFloats(vals))
	require.NoError(t, err)
	assert.Equal(t, vals, got, "formatting must parse back exactly")
	assert.Equal(t, "0.5", FormatFloat(0.5))

	_, err = ParseFloats("1 x")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestValidToken(t *testing.T) {
	assert.True(t, ValidToken("leftFoot"))
	assert.True(t, ValidToken("walk[0]"))
	assert.False(t, ValidToken(""))
	assert.False(t, ValidToken("left foot"))
	assert.False(t, ValidToken("a\nb"))
}
