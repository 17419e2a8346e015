package node

import (
	"fmt"
	"strings"
)

// Sentinel marks text as Tana paste markup.
const Sentinel = "%%tana%%"

const indentUnit = "  "

// NameLookup resolves field and supertag ids to display names.
type NameLookup interface {
	LookupName(id string) (string, bool)
}

// Names is a fixed id to name table.
type Names map[string]string

// LookupName implements NameLookup.
func (m Names) LookupName(id string) (string, bool) {
	name, ok := m[id]
	return name, ok
}

type renderState struct {
	names    NameLookup
	sentinel bool
	colors   *Colors
}

// RenderOption configures Render.
type RenderOption func(*renderState)

// WithSentinel prepends the %%tana%% line.
func WithSentinel(v bool) RenderOption {
	return func(rs *renderState) { rs.sentinel = v }
}

// WithColors colorizes the output for terminals. A nil Colors disables it.
func WithColors(c *Colors) RenderOption {
	return func(rs *renderState) { rs.colors = c }
}

// Render produces outline markup for n and its descendants. Lines are joined
// by newlines with no trailing newline.
func Render(n *Node, names NameLookup, opts ...RenderOption) (string, error) {
	return RenderAll([]*Node{n}, names, opts...)
}

// RenderAll renders a forest, one tree after the other.
func RenderAll(nodes []*Node, names NameLookup, opts ...RenderOption) (string, error) {
	rs := &renderState{names: names}
	for _, opt := range opts {
		opt(rs)
	}
	var lines []string
	if rs.sentinel {
		lines = append(lines, Sentinel)
	}
	for _, n := range nodes {
		var err error
		lines, err = rs.render(lines, n, "")
		if err != nil {
			return "", err
		}
	}
	return strings.Join(lines, "\n"), nil
}

func (rs *renderState) render(lines []string, n *Node, indent string) ([]string, error) {
	line, err := rs.line(n)
	if err != nil {
		return nil, err
	}

	childIndent := indent + indentUnit
	if n.Variant == Dummy {
		childIndent = indent
	} else {
		first, rest, multiline := strings.Cut(line, "\n")
		for _, t := range n.Tags {
			first += " " + rs.paint(tagColor, fmt.Sprintf("#[[%s^%s]]", rs.lookup(t.ID), t.ID))
		}
		lines = append(lines, indent+first)
		// continuation lines of a multi-line name stay inside the bullet
		if multiline {
			for _, l := range strings.Split(rest, "\n") {
				lines = append(lines, childIndent+l)
			}
		}
	}

	for _, child := range n.Children {
		lines, err = rs.render(lines, child, childIndent)
		if err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func (rs *renderState) line(n *Node) (string, error) {
	bullet := rs.paint(markerColor, "-")
	switch n.Variant {
	case Reference:
		return bullet + " " + rs.paint(refColor, fmt.Sprintf("[[%s^%s]]", n.Name, n.TargetID)), nil
	case Checkbox:
		box := "[ ]"
		if n.Checked {
			box = "[x]"
		}
		return bullet + " " + rs.paint(markerColor, box) + " " + n.Name, nil
	case Field:
		return bullet + " " + rs.paint(fieldColor, fmt.Sprintf("[[%s^%s]]::", rs.lookup(n.AttributeID), n.AttributeID)), nil
	case URL:
		label := n.Name
		if label == "" {
			label = n.URL
		}
		return bullet + " " + rs.paint(refColor, fmt.Sprintf("[%s](%s)", label, n.URL)), nil
	case Date:
		return bullet + " " + rs.paint(refColor, fmt.Sprintf("[[date:%s]]", n.Name)), nil
	case Dummy:
		return "", nil
	case File:
		label := n.Name
		if label == "" && n.File != nil {
			label = n.File.Filename
		}
		return bullet + " " + label, nil
	case Plain, Generic:
		return bullet + " " + n.Name, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, n.Variant)
	}
}

func (rs *renderState) lookup(id string) string {
	if rs.names == nil {
		return ""
	}
	name, _ := rs.names.LookupName(id)
	return name
}

func (rs *renderState) paint(attr colorAttr, s string) string {
	if rs.colors == nil {
		return s
	}
	return rs.colors.sprint(attr, s)
}
