package position

import (
	"fmt"
	"regexp"

	"golang.org/x/net/html"
)

// Whitespace is the whitespace processing mode, derived from CSS
// property white-space. The zero value denotes an unset mode.
type Whitespace uint8

// Whitespace modes
const (
	WhitespaceUnset    Whitespace = iota
	WhitespaceIgnore              // whitespace is collapsed, newlines are not significant
	WhitespaceNewline             // newlines are preserved, other whitespace collapses
	WhitespacePreserve            // all whitespace is preserved
)

func (ws Whitespace) String() string {
	switch ws {
	case WhitespaceUnset:
		return "unset"
	case WhitespaceIgnore:
		return "ignore"
	case WhitespaceNewline:
		return "newline"
	case WhitespacePreserve:
		return "preserve"
	}
	return fmt.Sprintf("Whitespace(%d)", ws)
}

// WhitespaceFromPropertyValue maps a value of CSS property white-space to a
// whitespace mode.
func WhitespaceFromPropertyValue(value string) (Whitespace, bool) {
	switch value {
	case "normal", "nowrap":
		return WhitespaceIgnore, true
	case "pre-line":
		return WhitespaceNewline, true
	case "pre", "pre-wrap":
		return WhitespacePreserve, true
	}
	return WhitespaceUnset, false
}

var (
	allWhitespace  = regexp.MustCompile(`^\s*$`)
	noNewlineSpace = regexp.MustCompile(`^[ \t\f]*$`)
)

// CanIgnore checks if node may be dropped from layout, given whitespace mode
// ws. Elements are never ignorable, text is ignorable if it consists of
// whitespace without significance under ws.
//
// An ws outside the defined modes is a programming error and will panic.
func CanIgnore(node *html.Node, ws Whitespace) bool {
	if node.Type == html.ElementNode {
		return false
	}
	text := node.Data
	switch ws {
	case WhitespaceIgnore:
		return allWhitespace.MatchString(text)
	case WhitespaceNewline:
		return noNewlineSpace.MatchString(text)
	case WhitespacePreserve:
		return len(text) == 0
	}
	panic(fmt.Sprintf("unexpected whitespace mode: %v", ws))
}
