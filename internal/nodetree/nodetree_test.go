package nodetree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXML_NestedElements(t *testing.T) {
	root := New("rss").Attr("version", "2.0")
	channel := New("channel").AddElem("title", "My Site")
	root.Add(channel)

	out := string(XML(root))
	assert.Contains(t, out, `<rss version="2.0">`)
	assert.Contains(t, out, "<title>My Site</title>")
	assert.Contains(t, out, "</rss>")
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
}

func TestXML_EscapesTextAndAttributes(t *testing.T) {
	root := Elem("title", `Tom & Jerry <"quoted">`)
	root.Attr("data", `a<b&"c"`)

	out := string(XML(root))
	assert.Contains(t, out, "Tom &amp; Jerry &lt;&#34;quoted&#34;&gt;")
	assert.Contains(t, out, `data="a&lt;b&amp;&#34;c&#34;"`)
}

func TestXML_EmptyElementSelfCloses(t *testing.T) {
	out := string(XML(New("br")))
	assert.Contains(t, out, "<br/>")
}

func TestXML_Deterministic(t *testing.T) {
	build := func() []byte {
		return XML(New("urlset").Add(
			New("url").AddElem("loc", "/a"),
			New("url").AddElem("loc", "/b"),
		))
	}
	require.Equal(t, build(), build())
}

func TestJSON_SortedKeysDeterministic(t *testing.T) {
	v := map[string]any{"zebra": 1, "alpha": 2}

	out, err := JSON(v)
	require.NoError(t, err)
	assert.Less(t,
		strings.Index(string(out), "alpha"), strings.Index(string(out), "zebra"),
		"keys must serialize sorted")
	assert.Equal(t, byte('\n'), out[len(out)-1])
}
