package sources

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	t.Parallel()
	require.Equal(t, []string{"bbc", "cnn", "guardian", "reuters"}, Names())
}

func TestAllConfigsValidate(t *testing.T) {
	t.Parallel()
	for _, def := range All() {
		require.NoError(t, def.Config.Validate(), "source %s", def.Config.Name)
		require.NotNil(t, def.PageURL, "source %s", def.Config.Name)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()
	def, ok := Lookup("CNN")
	require.True(t, ok, "lookup is case-insensitive")
	require.Equal(t, "cnn", def.Config.Name)

	_, ok = Lookup("nytimes")
	require.False(t, ok)
}

func TestResolve(t *testing.T) {
	t.Parallel()
	defs, unknown := Resolve([]string{"guardian", "nope", "bbc"})
	require.Len(t, defs, 2)
	require.Equal(t, "guardian", defs[0].Config.Name)
	require.Equal(t, "bbc", defs[1].Config.Name)
	require.Equal(t, []string{"nope"}, unknown)
}

func TestQueryPageURL(t *testing.T) {
	t.Parallel()
	rule := queryPageURL("page")
	require.Equal(t, "https://x.example.com/world", rule("https://x.example.com/world", 1))
	require.Equal(t, "https://x.example.com/world?page=2", rule("https://x.example.com/world", 2))
	require.Equal(t, "https://x.example.com/world?tab=a&page=3", rule("https://x.example.com/world?tab=a", 3))
}
