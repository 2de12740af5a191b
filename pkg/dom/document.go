package dom

import (
	"html"
	"io"
	"strings"
)

// Document is the root of a tree: an html element with a body child.
type Document struct {
	root *Node
	body *Node
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	body := El("body")
	root := El("html", Children(body))
	return &Document{root: root, body: body}
}

// Root returns the document element. Document-wide listeners (Escape,
// outside click) live here.
func (d *Document) Root() *Node { return d.root }

// Body returns the body element.
func (d *Document) Body() *Node { return d.body }

// Render writes the markup for n and its subtree to w.
func Render(w io.Writer, n *Node) error {
	var sb strings.Builder
	render(&sb, n, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders n to a string.
func (n *Node) String() string {
	var sb strings.Builder
	render(&sb, n, 0)
	return sb.String()
}

func render(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(indent)
	sb.WriteByte('<')
	sb.WriteString(n.tag)
	if n.key != "" {
		sb.WriteString(` data-key="`)
		sb.WriteString(html.EscapeString(n.key))
		sb.WriteByte('"')
	}
	for _, a := range n.attrs {
		sb.WriteByte(' ')
		sb.WriteString(a.Name)
		if a.Value != "" {
			sb.WriteString(`="`)
			sb.WriteString(html.EscapeString(a.Value))
			sb.WriteByte('"')
		}
	}
	sb.WriteByte('>')

	if len(n.children) == 0 {
		sb.WriteString(html.EscapeString(n.text))
	} else {
		sb.WriteByte('\n')
		if n.text != "" {
			sb.WriteString(indent)
			sb.WriteString("  ")
			sb.WriteString(html.EscapeString(n.text))
			sb.WriteByte('\n')
		}
		for _, c := range n.children {
			render(sb, c, depth+1)
		}
		sb.WriteString(indent)
	}
	sb.WriteString("</")
	sb.WriteString(n.tag)
	sb.WriteString(">\n")
}
