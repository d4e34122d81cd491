// Package htmltree wraps golang.org/x/net/html with the positional queries
// used to read tables: element-only child indexing, class-token matching and
// first-descendant lookup.
package htmltree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Node is a read-only view over a parsed HTML node
type Node struct {
	n *html.Node
}

// Parse builds a document tree from r. The HTML5 parser repairs malformed
// markup the way browsers do, so implied tbody elements are always present.
func Parse(r io.Reader) (*Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Node{n: root}, nil
}

// ParseBytes is Parse over an in-memory document
func ParseBytes(b []byte) (*Node, error) {
	return Parse(bytes.NewReader(b))
}

// Tag returns the element name, or "" for non-element nodes
func (x *Node) Tag() string {
	if x == nil || x.n.Type != html.ElementNode {
		return ""
	}
	return x.n.Data
}

// Is reports whether x is an element with the given tag name
func (x *Node) Is(tag string) bool {
	return x.Tag() == tag
}

// Attr returns the value of the named attribute or ""
func (x *Node) Attr(name string) string {
	if x == nil {
		return ""
	}
	for _, a := range x.n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether the class attribute contains want as a whole token
func (x *Node) HasClass(want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return false
	}
	for _, part := range strings.Fields(x.Attr("class")) {
		if part == want {
			return true
		}
	}
	return false
}

// ElementChildren returns the element children of x, skipping text and comments
func (x *Node) ElementChildren() []*Node {
	if x == nil {
		return nil
	}
	var out []*Node
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, &Node{n: c})
		}
	}
	return out
}

// NthElementChild returns the zero-based i-th element child, or nil
func (x *Node) NthElementChild(i int) *Node {
	if x == nil || i < 0 {
		return nil
	}
	for c := x.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == 0 {
			return &Node{n: c}
		}
		i--
	}
	return nil
}

// ChildrenByTag returns the element children with the given tag, in order
func (x *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range x.ElementChildren() {
		if c.Is(tag) {
			out = append(out, c)
		}
	}
	return out
}

// FirstDescendant returns the first element below x with the given tag in
// document order, or nil
func (x *Node) FirstDescendant(tag string) *Node {
	if x == nil {
		return nil
	}
	var found *html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(x.n)
	if found == nil {
		return nil
	}
	return &Node{n: found}
}

// FindAll returns every element below x with the given tag in document order.
// A non-empty class restricts the match to elements carrying that class token.
func (x *Node) FindAll(tag, class string) []*Node {
	if x == nil {
		return nil
	}
	var out []*Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				node := &Node{n: c}
				if class == "" || node.HasClass(class) {
					out = append(out, node)
				}
			}
			walk(c)
		}
	}
	walk(x.n)
	return out
}

// Text returns the concatenated text below x with whitespace runs collapsed
func (x *Node) Text() string {
	if x == nil {
		return ""
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(x.n)
	return strings.Join(strings.Fields(b.String()), " ")
}
