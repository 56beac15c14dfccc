// Package page discovers tooltip anchors in an HTML page. Discovery is
// the only thing the page is used for: the dictionary, not the page,
// is the source of truth for tooltip content.
package page

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// DefaultMarkerAttr is the attribute that marks an element as a
// tooltip anchor.
const DefaultMarkerAttr = "data-tooltip-id"

// Anchor is one tooltip-bearing element found by a scan.
type Anchor struct {
	ID  string // value of the marker attribute; "" when the attribute is absent
	Tag string // element name, e.g. "span"
}

// Provider supplies the current set of tooltip anchors. The editor
// depends on this interface rather than on a parsed document, so
// scanning is testable without a real page.
type Provider interface {
	Anchors() ([]Anchor, error)
}

// Document is a parsed HTML page.
type Document struct {
	root   *html.Node
	marker string
}

// Parse reads and parses an HTML page. marker is the attribute that
// identifies tooltip anchors; pass "" for DefaultMarkerAttr.
func Parse(r io.Reader, marker string) (*Document, error) {
	if marker == "" {
		marker = DefaultMarkerAttr
	}
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Document{root: root, marker: marker}, nil
}

// Scan returns every element carrying the marker attribute, in
// document order. It is total: an unmarked page yields an empty
// result, never an error. Elements may repeat an identifier; the
// result is not deduplicated.
func (d *Document) Scan() []Anchor {
	var anchors []Anchor
	walk(d.root, func(n *html.Node) {
		if id, ok := attr(n, d.marker); ok {
			anchors = append(anchors, Anchor{ID: id, Tag: n.Data})
		}
	})
	return anchors
}

// Label returns the text content of the element whose id attribute
// equals the tooltip identifier, or "" if no such element exists. That
// element is the tooltip's visible label.
func (d *Document) Label(id string) string {
	if id == "" {
		return ""
	}
	var label string
	walk(d.root, func(n *html.Node) {
		if v, ok := attr(n, "id"); ok && v == id && label == "" {
			label = collectText(n)
		}
	})
	return label
}

// ExtractID reads the marker attribute from an element, defaulting to
// "" when absent.
func ExtractID(n *html.Node, marker string) string {
	if marker == "" {
		marker = DefaultMarkerAttr
	}
	v, _ := attr(n, marker)
	return v
}

// walk visits every element node under root in document order.
func walk(root *html.Node, visit func(*html.Node)) {
	if root.Type == html.ElementNode {
		visit(root)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// attr returns the value of the named attribute and whether it was set.
func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// collectText concatenates the text nodes under n, collapsing runs of
// whitespace.
func collectText(n *html.Node) string {
	var sb strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// FileProvider re-reads and re-parses an HTML file on every call, so a
// rescan always reflects the file's current contents. The previous
// scan result is fully replaced, never merged.
type FileProvider struct {
	Path   string
	Marker string

	doc *Document // last parsed document, for Label lookups
}

// Anchors implements Provider.
func (p *FileProvider) Anchors() ([]Anchor, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	doc, err := Parse(f, p.Marker)
	if err != nil {
		return nil, err
	}
	p.doc = doc
	return doc.Scan(), nil
}

// Label looks up a tooltip's visible label in the most recently
// scanned document.
func (p *FileProvider) Label(id string) string {
	if p.doc == nil {
		return ""
	}
	return p.doc.Label(id)
}
