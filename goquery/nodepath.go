package goquery

import (
	"github.com/fwojciec/lpedit"
	"golang.org/x/net/html"
)

// BuildPath returns the address of node relative to root: the ordinal index
// of each ancestor step among its parent's element children, read from root
// down to node. Text and comment nodes never count, so whitespace handling
// differences between parses do not shift the path.
//
// Returns false if node is not an element inside root. The root itself has
// an empty path.
func BuildPath(node, root *html.Node) (lpedit.NodePath, bool) {
	if node == nil || root == nil {
		return nil, false
	}

	path := lpedit.NodePath{}
	for n := node; n != root; n = n.Parent {
		if n.Parent == nil || n.Type != html.ElementNode {
			return nil, false
		}
		path = append(path, elementIndex(n))
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// ResolvePath walks path down from root. It returns false when any step is
// out of range; it never panics.
func ResolvePath(root *html.Node, path lpedit.NodePath) (*html.Node, bool) {
	if root == nil {
		return nil, false
	}

	current := root
	for _, index := range path {
		child := nthElementChild(current, index)
		if child == nil {
			return nil, false
		}
		current = child
	}
	return current, true
}

// elementIndex returns the position of n among its parent's element children.
func elementIndex(n *html.Node) int {
	index := 0
	for c := n.PrevSibling; c != nil; c = c.PrevSibling {
		if c.Type == html.ElementNode {
			index++
		}
	}
	return index
}

// nthElementChild returns the index-th element child of parent, or nil.
func nthElementChild(parent *html.Node, index int) *html.Node {
	if index < 0 {
		return nil
	}
	count := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if count == index {
			return c
		}
		count++
	}
	return nil
}
