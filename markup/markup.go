// Package markup exposes the small slice of an HTML tree the extractors need:
// selection by class, ordered element children, own text and full text.
//
// The extractors only see the Node interface. The implementation in this
// package is backed by golang.org/x/net/html.
package markup

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Node is a navigable element of a parsed document.
type Node interface {
	// SelectByClass returns the node itself, if it carries class, followed by
	// every descendant element carrying class, in document order.
	SelectByClass(class string) []Node
	// Children returns the element children of the node.
	Children() []Node
	// OwnText returns the text belonging directly to the node, excluding the
	// text of descendant elements.
	OwnText() string
	// Text returns the combined text of the node and all its descendants.
	Text() string
}

// Parse reads an HTML document from r. The input is expected to be UTF-8.
func Parse(r io.Reader) (Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &element{n: doc}, nil
}

// ParseFile opens and parses the document at path, converting it to UTF-8
// according to its declared charset.
func ParseFile(path string) (Node, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	r, err := charset.NewReader(file, "text/html")
	if err != nil {
		return nil, fmt.Errorf("detect charset: %w", err)
	}
	return Parse(r)
}

type element struct {
	n *html.Node
}

var _ Node = (*element)(nil)

func (e *element) SelectByClass(class string) []Node {
	class = strings.TrimSpace(class)
	if class == "" {
		return nil
	}
	var result []Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			result = append(result, &element{n: n})
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(e.n)
	return result
}

func (e *element) Children() []Node {
	var result []Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			result = append(result, &element{n: c})
		}
	}
	return result
}

func (e *element) OwnText() string {
	var sb strings.Builder
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			sb.WriteString(c.Data)
		case c.Type == html.ElementNode && c.Data == "br":
			sb.WriteString(" ")
		}
	}
	return normalizeSpace(sb.String())
}

func (e *element) Text() string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			if n.Data == "br" || isBlock(n.Data) {
				sb.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && isBlock(n.Data) {
			sb.WriteString(" ")
		}
	}
	walk(e.n)
	return normalizeSpace(sb.String())
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if strings.EqualFold(c, class) {
				return true
			}
		}
	}
	return false
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6", "table", "tr", "td", "th", "blockquote", "pre":
		return true
	}
	return false
}

// normalizeSpace collapses whitespace runs to single spaces and trims the ends.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
