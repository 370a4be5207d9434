package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const page = `<html><body>
	<h1 class="headline">  Breaking News  </h1>
	<div class="empty"></div>
	<a class="story" href="/a">First</a>
	<a class="story" href="/b">Second</a>
	<a class="story">No href</a>
	<ul class="tags"><li>world</li><li> </li><li>economy</li></ul>
	<img class="lede" src="/img.jpg" alt="lede"/>
</body></html>`

func TestDocumentQueries(t *testing.T) {
	t.Parallel()
	doc, err := New().Parse(page)
	require.NoError(t, err)

	t.Run("first text trimmed", func(t *testing.T) {
		text, ok := doc.FirstText("h1.headline")
		require.True(t, ok)
		require.Equal(t, "Breaking News", text)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := doc.FirstText("h2.missing")
		require.False(t, ok)
	})

	t.Run("empty match still found", func(t *testing.T) {
		text, ok := doc.FirstText("div.empty")
		require.True(t, ok)
		require.Empty(t, text)
	})

	t.Run("attribute", func(t *testing.T) {
		src, ok := doc.Attribute("img.lede", "src")
		require.True(t, ok)
		require.Equal(t, "/img.jpg", src)

		_, ok = doc.Attribute("img.lede", "data-missing")
		require.False(t, ok)
	})

	t.Run("all texts drop empties", func(t *testing.T) {
		require.Equal(t, []string{"world", "economy"}, doc.All("ul.tags li"))
	})

	t.Run("attributes skip missing", func(t *testing.T) {
		require.Equal(t, []string{"/a", "/b"}, doc.Attributes("a.story", "href"))
	})
}
