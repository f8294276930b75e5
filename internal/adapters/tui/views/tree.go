package views

import (
	"strings"

	"postino/internal/resolve"
	"postino/internal/schema"
)

// TreeNode is one row of the browser: a resource address plus enough
// schema shape to render and expand it. Children load on first expand,
// so large or recursive trees stay cheap until visited.
type TreeNode struct {
	URI      string
	Label    string
	Kind     schema.Kind
	Lazy     bool
	Parent   *TreeNode
	Children []*TreeNode
	Expanded bool
	Loaded   bool
}

// Container reports whether the node can hold children.
func (n *TreeNode) Container() bool {
	switch n.Kind {
	case schema.KindObject, schema.KindCollection, schema.KindNamespace:
		return true
	}
	return false
}

// Expand marks the node as expanded
func (n *TreeNode) Expand() {
	n.Expanded = true
}

// Collapse marks the node as collapsed
func (n *TreeNode) Collapse() {
	n.Expanded = false
}

// Depth returns how many ancestors the node has
func (n *TreeNode) Depth() int {
	depth := 0
	for p := n.Parent; p != nil; p = p.Parent {
		depth++
	}
	return depth
}

// Flatten returns the visible rows under n in display order: n itself,
// then the subtrees of its children while expanded.
func (n *TreeNode) Flatten() []*TreeNode {
	out := []*TreeNode{n}
	if !n.Expanded {
		return out
	}
	for _, c := range n.Children {
		out = append(out, c.Flatten()...)
	}
	return out
}

// schemeRoots builds one top-level row per registered scheme.
func schemeRoots(registry *resolve.Registry) ([]*TreeNode, error) {
	var roots []*TreeNode
	for _, scheme := range registry.Schemes() {
		uri := scheme + "://"
		sp, err := registry.Resolve(uri)
		if err != nil {
			return nil, err
		}
		roots = append(roots, &TreeNode{
			URI:   uri,
			Label: uri,
			Kind:  sp.Node().Kind(),
		})
	}
	return roots, nil
}

// loadChildren populates node's children through the registry. Object and
// namespace rows list their schema children; collection rows list the item
// references the collection resolves to.
func loadChildren(registry *resolve.Registry, node *TreeNode) error {
	sp, err := registry.Resolve(node.URI)
	if err != nil {
		return err
	}

	var children []*TreeNode
	switch node.Kind {
	case schema.KindCollection:
		v, err := sp.Resolve()
		if err != nil {
			return err
		}
		refs, ok := v.([]any)
		if !ok {
			return &schema.TypeError{URI: node.URI, Want: "sequence", Got: v}
		}
		itemKind := schema.KindObject
		if item := sp.Node().Item(); item != nil {
			itemKind = item.Kind()
		}
		for _, r := range refs {
			ref, ok := r.(map[string]any)
			if !ok {
				continue
			}
			uri, _ := ref["uri"].(string)
			if uri == "" {
				continue
			}
			children = append(children, &TreeNode{
				URI:    uri,
				Label:  itemLabel(node.URI, uri),
				Kind:   itemKind,
				Parent: node,
			})
		}

	default:
		for _, key := range sp.Keys() {
			child, err := sp.Get(key)
			if err != nil {
				continue
			}
			children = append(children, &TreeNode{
				URI:    child.URI(),
				Label:  key,
				Kind:   child.Node().Kind(),
				Lazy:   child.Node().IsLazy(),
				Parent: node,
			})
		}
	}

	node.Children = children
	node.Loaded = true
	return nil
}

// itemLabel shows a collection item by the part of its address below the
// collection: the name, id or [index] it is reachable by.
func itemLabel(collectionURI, itemURI string) string {
	tail := strings.TrimPrefix(itemURI, collectionURI)
	tail = strings.TrimPrefix(tail, "/")
	if tail == "" {
		return itemURI
	}
	return tail
}
