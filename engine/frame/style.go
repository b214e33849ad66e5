package frame

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Attr returns the value of attribute key of elem.
func Attr(elem *html.Node, key string) (string, bool) {
	if elem == nil {
		return "", false
	}
	for _, a := range elem.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key of elem, replacing an existing value.
func SetAttr(elem *html.Node, key, value string) {
	for i, a := range elem.Attr {
		if a.Namespace == "" && a.Key == key {
			elem.Attr[i].Val = value
			return
		}
	}
	elem.Attr = append(elem.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr removes attribute key from elem.
func RemoveAttr(elem *html.Node, key string) {
	attrs := elem.Attr[:0]
	for _, a := range elem.Attr {
		if a.Namespace != "" || a.Key != key {
			attrs = append(attrs, a)
		}
	}
	elem.Attr = attrs
}

func inlineStyle(elem *html.Node) []*css.Declaration {
	style, ok := Attr(elem, "style")
	if !ok || strings.TrimSpace(style) == "" {
		return nil
	}
	// the parser drops the value of a final declaration without ';'
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		tracer().Errorf("ignoring malformed inline style %q: %v", style, err)
		return nil
	}
	return decls
}

func writeInlineStyle(elem *html.Node, decls []*css.Declaration) {
	if len(decls) == 0 {
		RemoveAttr(elem, "style")
		return
	}
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.String()
	}
	SetAttr(elem, "style", strings.Join(parts, " "))
}

// StyleProperty returns the value of a property set in elem's inline style.
func StyleProperty(elem *html.Node, name string) (string, bool) {
	for _, d := range inlineStyle(elem) {
		if d.Property == name {
			return d.Value, true
		}
	}
	return "", false
}

// SetStyleProperty sets a property of elem's inline style. Other
// declarations keep their order.
func SetStyleProperty(elem *html.Node, name, value string) {
	decls := inlineStyle(elem)
	for _, d := range decls {
		if d.Property == name {
			d.Value = value
			d.Important = false
			writeInlineStyle(elem, decls)
			return
		}
	}
	decls = append(decls, &css.Declaration{Property: name, Value: value})
	writeInlineStyle(elem, decls)
}

// RemoveStyleProperty removes a property from elem's inline style.
func RemoveStyleProperty(elem *html.Node, name string) {
	decls := inlineStyle(elem)
	kept := decls[:0]
	for _, d := range decls {
		if d.Property != name {
			kept = append(kept, d)
		}
	}
	writeInlineStyle(elem, kept)
}
