package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/itsmostafa/tanaline/internal/node"
)

// LineKind classifies a line of meeting notes.
type LineKind int

const (
	TextLine LineKind = iota
	BulletLine
	TopicLine
	ActionLine
)

var (
	topicPattern  = regexp.MustCompile(`^([\s\p{Zs}]*)\([\sxX]\) (.*)$`)
	bulletPattern = regexp.MustCompile(`^([\s\p{Zs}]*)•[\s\p{Zs}]+(.*)$`)
	actionPattern = regexp.MustCompile(`^([\s\p{Zs}]*)\[([\sxX])\] (.*)$`)
	textPattern   = regexp.MustCompile(`^([\s\p{Zs}]*)(.*)$`)
)

// NoteLine is a classified line of meeting notes.
type NoteLine struct {
	Kind    LineKind
	Text    string
	Checked bool
	// Indent is the leading whitespace count plus the kind's offset.
	Indent int
}

// ClassifyLine parses one line. ok is false for lines that carry no text.
func ClassifyLine(line string) (NoteLine, bool) {
	var (
		nl     NoteLine
		spaces string
		offset int
	)
	if m := topicPattern.FindStringSubmatch(line); m != nil {
		spaces, nl.Text, nl.Kind, offset = m[1], m[2], TopicLine, 1
	} else if m := bulletPattern.FindStringSubmatch(line); m != nil {
		spaces, nl.Text, nl.Kind, offset = m[1], m[2], BulletLine, 1
	} else if m := actionPattern.FindStringSubmatch(line); m != nil {
		spaces, nl.Text, nl.Kind, offset = m[1], m[3], ActionLine, 2
		nl.Checked = strings.TrimSpace(m[2]) != ""
	} else {
		m := textPattern.FindStringSubmatch(line)
		spaces, nl.Text, nl.Kind = m[1], m[2], TextLine
	}

	nl.Text = strings.TrimFunc(nl.Text, func(r rune) bool { return r == '•' || unicode.IsSpace(r) })
	if nl.Text == "" {
		return NoteLine{}, false
	}
	nl.Indent = len([]rune(spaces)) + offset
	return nl, true
}

// Node converts the line to its node.
func (nl NoteLine) Node() *node.Node {
	switch nl.Kind {
	case ActionLine:
		return node.NewCheckbox(nl.Text, nl.Checked)
	case TopicLine:
		return node.NewPlain("**" + nl.Text + "**")
	default:
		return node.NewPlain(nl.Text)
	}
}

// ParseNotes adds every line of text under root, padding skipped indent
// levels with Dummy nodes. Lines without text are dropped.
func ParseNotes(root *node.Node, text string) error {
	p := NewPadder(root)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		nl, ok := ClassifyLine(line)
		if !ok {
			continue
		}
		if err := p.Add(nl.Node(), nl.Indent); err != nil {
			return err
		}
	}
	return nil
}
