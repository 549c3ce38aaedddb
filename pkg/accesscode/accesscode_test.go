package accesscode

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	gen := NewGenerator()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, IsValid(code), "code %q", code)
		seen[code] = struct{}{}
	}

	assert.Greater(t, len(seen), 90)
}

func TestGenerator_SourceExhausted(t *testing.T) {
	gen := NewGeneratorWithSource(bytes.NewReader(nil))

	_, err := gen.Generate()
	assert.Error(t, err)
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("AB12CD34"))
	assert.True(t, IsValid(strings.Repeat("Z", Length)))

	assert.False(t, IsValid(""))
	assert.False(t, IsValid("AB12CD3"))
	assert.False(t, IsValid("AB12CD345"))
	assert.False(t, IsValid("ab12cd34"))
	assert.False(t, IsValid("AB12-D34"))
}
