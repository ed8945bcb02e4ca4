package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_YAMLFrontmatter_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\n---\n# Heading\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("title: Hello\n"), meta)
	require.Equal(t, []byte("# Heading\n"), body)
}

func TestSplit_NoFrontmatter_ReturnsError(t *testing.T) {
	_, _, err := Split([]byte("# Just a heading\n"))
	require.ErrorIs(t, err, ErrNoFrontMatter)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, err := Split([]byte("---\ntitle: Hello\n# Heading\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplit_CRLF_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: Hello\r\n---\r\nbody\r\n")

	meta, body, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, []byte("title: Hello\r\n"), meta)
	require.Equal(t, []byte("body\r\n"), body)
}

func TestSplit_EmptyBlock_ReturnsEmptyMeta(t *testing.T) {
	meta, body, err := Split([]byte("---\n---\nbody\n"))
	require.NoError(t, err)
	require.Empty(t, meta)
	require.Equal(t, []byte("body\n"), body)
}

func TestSplit_ClosingDelimiterAtEOF_ReturnsEmptyBody(t *testing.T) {
	meta, body, err := Split([]byte("---\ntitle: Hello\n---"))
	require.NoError(t, err)
	require.Equal(t, []byte("title: Hello\n"), meta)
	require.Empty(t, body)
}

func TestParse_ValidYAML_ReturnsFieldMap(t *testing.T) {
	input := []byte("---\ntitle: Hello\ntags:\n  - go\n  - web\n---\nbody\n")

	fields, body, err := Parse(input)
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, []any{"go", "web"}, fields["tags"])
	require.Equal(t, []byte("body\n"), body)
}

func TestParse_MalformedYAML_ReturnsError(t *testing.T) {
	input := []byte("---\ntitle: [unclosed\n---\nbody\n")

	_, _, err := Parse(input)
	require.Error(t, err)
}
