package position

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeOp is the kind of a text change. Values follow the convention of
// diff-match-patch.
type ChangeOp int8

// Change operations
const (
	ChangeDelete ChangeOp = -1
	ChangeEqual  ChangeOp = 0
	ChangeInsert ChangeOp = 1
)

// Change is a run of text which has been kept, deleted or inserted while
// preprocessing the text content of a node.
type Change struct {
	Op   ChangeOp
	Text string
}

func (c Change) String() string {
	return fmt.Sprintf("%+d%q", c.Op, c.Text)
}

// DiffText computes changes transforming orig into processed, rune by rune.
// Each whitespace run collapsed during preprocessing ends up as a change of
// its own.
func DiffText(orig, processed string) []Change {
	o, p := splitRunes(orig), splitRunes(processed)
	m := difflib.NewMatcherWithJunk(o, p, false, nil)
	var changes []Change
	add := func(op ChangeOp, r []string) {
		if len(r) == 0 {
			return
		}
		text := strings.Join(r, "")
		if n := len(changes); n > 0 && changes[n-1].Op == op {
			changes[n-1].Text += text
			return
		}
		changes = append(changes, Change{Op: op, Text: text})
	}
	for _, oc := range m.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			add(ChangeEqual, o[oc.I1:oc.I2])
		case 'd':
			add(ChangeDelete, o[oc.I1:oc.I2])
		case 'i':
			add(ChangeInsert, p[oc.J1:oc.J2])
		case 'r':
			add(ChangeDelete, o[oc.I1:oc.I2])
			add(ChangeInsert, p[oc.J1:oc.J2])
		}
	}
	return changes
}

func splitRunes(s string) []string {
	r := make([]string, 0, len(s))
	for _, c := range s {
		r = append(r, string(c))
	}
	return r
}

// ResolveOriginalIndex maps a rune index into processed text back to the
// original text. Indices within inserted text map to the original position
// of the insertion.
func ResolveOriginalIndex(changes []Change, index int) int {
	return resolveIndex(changes, index, false)
}

// ResolveNewIndex maps a rune index into original text to the processed
// text. Indices within deleted text map to the position of the deletion.
func ResolveNewIndex(changes []Change, index int) int {
	return resolveIndex(changes, index, true)
}

func resolveIndex(changes []Change, index int, forward bool) int {
	from, to := 0, 0 // positions in the text index refers to and in the target
	for _, c := range changes {
		l := len([]rune(c.Text))
		op := c.Op
		if !forward {
			op = -op
		}
		switch op {
		case ChangeEqual:
			if index < from+l {
				return to + index - from
			}
			from += l
			to += l
		case ChangeDelete: // run exists in source text only
			if index < from+l {
				return to
			}
			from += l
		case ChangeInsert: // run exists in target text only
			to += l
		}
	}
	return to + index - from
}
