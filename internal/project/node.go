package project

import (
	"encoding/xml"
	"strings"
)

// Node is a generic XML element. CDT project files are deeply nested and
// extension-specific, so they are queried rather than mapped to structs.
type Node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []*Node    `xml:",any"`
}

// Name returns the element's local name.
func (n *Node) Name() string {
	return n.XMLName.Local
}

// Attr returns the value of the named attribute and whether it is present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Predicate selects nodes in queries.
type Predicate func(n *Node) bool

// AttrEquals matches nodes whose attribute equals value.
func AttrEquals(name, value string) Predicate {
	return func(n *Node) bool {
		v, ok := n.Attr(name)
		return ok && v == value
	}
}

// AttrHasPrefix matches nodes whose attribute starts with prefix.
func AttrHasPrefix(name, prefix string) Predicate {
	return func(n *Node) bool {
		v, ok := n.Attr(name)
		return ok && strings.HasPrefix(v, prefix)
	}
}

func (n *Node) matches(name string, preds []Predicate) bool {
	if n.Name() != name {
		return false
	}
	for _, p := range preds {
		if !p(n) {
			return false
		}
	}
	return true
}

// Walk visits n and its descendants in document order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FindAll returns every descendant (n excluded) named name that satisfies preds,
// in document order.
func (n *Node) FindAll(name string, preds ...Predicate) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if d.matches(name, preds) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// Find returns the first descendant named name that satisfies preds, or nil.
func (n *Node) Find(name string, preds ...Predicate) *Node {
	var found *Node
	for _, c := range n.Children {
		if !c.Walk(func(d *Node) bool {
			if d.matches(name, preds) {
				found = d
				return false
			}
			return true
		}) {
			break
		}
	}
	return found
}

// ChildrenNamed returns the direct children named name that satisfy preds.
func (n *Node) ChildrenNamed(name string, preds ...Predicate) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.matches(name, preds) {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first direct child named name that satisfies preds, or nil.
func (n *Node) Child(name string, preds ...Predicate) *Node {
	for _, c := range n.Children {
		if c.matches(name, preds) {
			return c
		}
	}
	return nil
}
