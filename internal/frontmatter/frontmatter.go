package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoFrontMatter indicates the document does not start with a `---`
	// delimiter at all.
	ErrNoFrontMatter = errors.New("document has no front matter block")
	// ErrMissingClosingDelimiter indicates an opening `---` without a
	// matching closing delimiter.
	ErrMissingClosingDelimiter = errors.New("front matter missing closing delimiter")
)

// Split separates a YAML front-matter block (`---` delimited) from the body.
//
// Content files are required to carry front matter; a document that does not
// open with a delimiter fails with ErrNoFrontMatter. Both LF and CRLF newline
// styles are accepted.
func Split(content []byte) (meta []byte, body []byte, err error) {
	nl := detectNewline(content)

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, nil, ErrNoFrontMatter
	}

	start := len(open)
	// Empty block: opening delimiter immediately followed by the closing one.
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// Closing delimiter at EOF without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content[start:], tail) {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, nil
		}
		return nil, nil, ErrMissingClosingDelimiter
	}

	metaEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	return content[start:metaEnd], content[bodyStart:], nil
}

// Parse splits a document and unmarshals its front matter into a map.
func Parse(content []byte) (map[string]any, []byte, error) {
	meta, body, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	fields, err := parseYAML(meta)
	if err != nil {
		return nil, nil, err
	}
	return fields, body, nil
}

func parseYAML(meta []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(meta)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(meta, &fields); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if idx := bytes.IndexByte(content, '\n'); idx > 0 && content[idx-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
