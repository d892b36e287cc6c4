package pathkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/datapacker/internal/models"
)

func TestKey_Terminal(t *testing.T) {
	tests := []struct {
		key      Key
		expected string
	}{
		{"pack.mcmeta", "pack.mcmeta"},
		{"data/minecraft/tags", "tags"},
		{"data/load.json", "load.json"},
		{"trailing/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.Terminal())
		})
	}
}

func TestKey_IsFile(t *testing.T) {
	tests := []struct {
		key      Key
		expected bool
	}{
		{"pack.mcmeta", true},
		{"load.json", true},
		{"data", false},
		{"data/tags/functions", false},
		{"a/b/c.json", true},
		{"v1.2/tags", false},
		{"tags/", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.key.IsFile())
		})
	}
}

func TestKey_Split(t *testing.T) {
	tests := []struct {
		key          Key
		expectedTop  string
		expectedRest []string
	}{
		{"data", "data", nil},
		{"a/b/c", "a", []string{"b", "c"}},
		{"a/b.json", "a", []string{"b.json"}},
		{"a/", "a", nil},
		{"a//b", "a", []string{"", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			top, rest := tt.key.Split()
			assert.Equal(t, tt.expectedTop, top)
			assert.Equal(t, tt.expectedRest, rest)
		})
	}
}

func TestWrap(t *testing.T) {
	leaf := models.NewFile([]byte("{}"))

	t.Run("no segments returns entry", func(t *testing.T) {
		assert.Same(t, leaf, Wrap(leaf, nil))
	})

	t.Run("innermost segment holds the entry", func(t *testing.T) {
		wrapped := Wrap(leaf, []string{"b", "c"})

		require.True(t, wrapped.IsFolder())
		assert.Equal(t, []string{"b"}, wrapped.Names)
		b, ok := wrapped.Child("b")
		require.True(t, ok)
		assert.Equal(t, []string{"c"}, b.Names)
		c, ok := b.Child("c")
		require.True(t, ok)
		assert.Same(t, leaf, c)
	})
}

func TestResolve(t *testing.T) {
	leaf := models.NewFile([]byte("1"))
	name, entry := Resolve("a/b/c.json", leaf)

	assert.Equal(t, "a", name)
	b, ok := entry.Child("b")
	require.True(t, ok)
	c, ok := b.Child("c.json")
	require.True(t, ok)
	assert.Same(t, leaf, c)
}
