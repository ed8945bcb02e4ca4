// Package nodetree is a small generic tree builder serializing to XML or
// JSON. Feed and sitemap assembly construct node sets here instead of
// hand-concatenating markup.
package nodetree

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
)

// Attr is one ordered XML attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element in the tree. Text and Children are mutually exclusive
// in practice; when both are set, Text is emitted first.
type Node struct {
	Name     string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// New creates a node.
func New(name string) *Node { return &Node{Name: name} }

// Elem creates a node with text content.
func Elem(name, text string) *Node { return &Node{Name: name, Text: text} }

// Attr appends an attribute and returns the node for chaining.
func (n *Node) Attr(name, value string) *Node {
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
	return n
}

// Add appends child nodes and returns the receiver.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// AddElem appends a text-content child and returns the receiver.
func (n *Node) AddElem(name, text string) *Node {
	return n.Add(Elem(name, text))
}

// XML serializes the tree as an XML document with the standard declaration.
func XML(root *Node) []byte {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	writeXML(&b, root, 0)
	return b.Bytes()
}

func writeXML(b *bytes.Buffer, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	b.WriteString(indent)
	b.WriteByte('<')
	b.WriteString(n.Name)
	for _, a := range n.Attrs {
		fmt.Fprintf(b, ` %s="%s"`, a.Name, escape(a.Value))
	}

	if n.Text == "" && len(n.Children) == 0 {
		b.WriteString("/>\n")
		return
	}

	b.WriteByte('>')
	if n.Text != "" {
		b.WriteString(escape(n.Text))
	}
	if len(n.Children) > 0 {
		b.WriteByte('\n')
		for _, c := range n.Children {
			writeXML(b, c, depth+1)
		}
		b.WriteString(indent)
	}
	fmt.Fprintf(b, "</%s>\n", n.Name)
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&#34;",
	"'", "&#39;",
)

func escape(s string) string { return escaper.Replace(s) }

// JSON serializes any value as indented JSON with a trailing newline.
// Map keys serialize sorted, so output is deterministic.
func JSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize json: %w", err)
	}
	return append(data, '\n'), nil
}
