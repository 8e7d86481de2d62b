package goquery

import (
	"strings"

	"golang.org/x/net/html"
)

// SelectorHint returns a human-readable label for an element: tag#id when
// the element has an id, tag.c1.c2 using at most its first two classes, or
// the bare tag name. Hints are never used to relocate elements.
func SelectorHint(n *html.Node) string {
	if n == nil {
		return ""
	}

	var id, class string
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			id = strings.TrimSpace(a.Val)
		case "class":
			class = a.Val
		}
	}

	if id != "" {
		return n.Data + "#" + id
	}

	classes := strings.Fields(class)
	if len(classes) > 2 {
		classes = classes[:2]
	}
	if len(classes) == 0 {
		return n.Data
	}
	return n.Data + "." + strings.Join(classes, ".")
}
