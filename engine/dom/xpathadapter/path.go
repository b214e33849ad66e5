package xpathadapter

import (
	"fmt"
	"strings"

	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// ErrNoMatch is returned if a path does not select any node.
var ErrNoMatch = fmt.Errorf("path does not match a node")

// PathOf returns the absolute location path of node, e.g.
//
//	/html[1]/body[1]/p[2]/text()[1]
//
// The path is relative to the topmost ancestor of node, which should be a
// document node. For a document node PathOf returns "/".
func PathOf(node *html.Node) string {
	if node == nil {
		return ""
	}
	var steps []string
	for n := node; n != nil && n.Type != html.DocumentNode; n = n.Parent {
		steps = append(steps, step(n))
	}
	if len(steps) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(steps) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(steps[i])
	}
	return b.String()
}

func step(n *html.Node) string {
	count := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if sameKind(s, n) {
			count++
		}
	}
	switch n.Type {
	case html.TextNode:
		return fmt.Sprintf("text()[%d]", count)
	case html.CommentNode:
		return fmt.Sprintf("comment()[%d]", count)
	}
	return fmt.Sprintf("%s[%d]", n.Data, count)
}

func sameKind(a, b *html.Node) bool {
	if a.Type != b.Type {
		return false
	}
	return a.Type != html.ElementNode || a.Data == b.Data
}

// Resolve selects the first node matching path, starting at root.
func Resolve(root *html.Node, path string) (*html.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("cannot resolve %q: %w", path, ErrNoMatch)
	}
	if path == "/" {
		return root, nil
	}
	expr, err := xpath.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("illegal path %q: %w", path, err)
	}
	iter := expr.Select(NewNavigator(root))
	if !iter.MoveNext() {
		return nil, fmt.Errorf("cannot resolve %q: %w", path, ErrNoMatch)
	}
	node, err := CurrentNode(iter.Current())
	if err != nil {
		return nil, err
	}
	tracer().Debugf("resolved %s to %v", path, node.Data)
	return node, nil
}

// QueryAll returns all nodes matching an XPath expression.
func QueryAll(root *html.Node, expr string) ([]*html.Node, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, err
	}
	var nodes []*html.Node
	iter := compiled.Select(NewNavigator(root))
	for iter.MoveNext() {
		if n, err := CurrentNode(iter.Current()); err == nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}
