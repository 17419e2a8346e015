// Package node implements the typed outline tree shared by the builders and
// the two serializers: the JSON wire format accepted by the Tana input API and
// the Tana paste markup.
package node

import (
	"encoding/json"
	"fmt"
)

// Variant identifies which kind of node a Node is.
type Variant int

const (
	Plain Variant = iota
	Field
	Checkbox
	URL
	Date
	Reference
	File
	Dummy
	Generic
)

var variantNames = [...]string{
	Plain:     "plain",
	Field:     "field",
	Checkbox:  "checkbox",
	URL:       "url",
	Date:      "date",
	Reference: "reference",
	File:      "file",
	Dummy:     "dummy",
	Generic:   "generic",
}

func (v Variant) String() string {
	if v < 0 || int(v) >= len(variantNames) {
		return fmt.Sprintf("Variant(%d)", int(v))
	}
	return variantNames[v]
}

// ParseVariant is the inverse of Variant.String.
func ParseVariant(s string) (Variant, error) {
	for i, name := range variantNames {
		if name == s {
			return Variant(i), nil
		}
	}
	return 0, fmt.Errorf("unknown node variant %q", s)
}

// Tag is a supertag reference attached to a node.
type Tag struct {
	ID string `json:"id"`
}

// FileData is the attachment carried by File nodes.
type FileData struct {
	Payload     []byte `json:"-"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// Node is a single entry of an outline tree. Which of the variant specific
// fields are meaningful is decided by Variant.
type Node struct {
	Variant     Variant `json:"variant"`
	Name        string  `json:"name,omitempty"`
	NodeID      string  `json:"nodeId,omitempty"`
	Description string  `json:"description,omitempty"`
	Children    []*Node `json:"children,omitempty"`
	Tags        []Tag   `json:"supertags,omitempty"`

	AttributeID string    `json:"attributeId,omitempty"` // Field
	Checked     bool      `json:"checked,omitempty"`     // Checkbox
	URL         string    `json:"url,omitempty"`         // URL
	TargetID    string    `json:"targetId,omitempty"`    // Reference
	File        *FileData `json:"file,omitempty"`        // File
}

// NewPlain returns a plain text node.
func NewPlain(name string) *Node {
	return &Node{Variant: Plain, Name: name}
}

// NewGeneric returns a container node.
func NewGeneric(name string, children ...*Node) *Node {
	n := &Node{Variant: Generic, Name: name}
	if len(children) > 0 {
		n.Append(children...)
	}
	return n
}

// Texts turns plain strings into plain nodes.
func Texts(names ...string) []*Node {
	nodes := make([]*Node, len(names))
	for i, name := range names {
		nodes[i] = NewPlain(name)
	}
	return nodes
}

// NewField returns a field node for attributeID holding children as values.
func NewField(attributeID string, children ...*Node) *Node {
	n := &Node{Variant: Field, AttributeID: attributeID}
	if len(children) > 0 {
		n.Append(children...)
	}
	return n
}

// NewCheckbox returns a checkbox node.
func NewCheckbox(name string, checked bool) *Node {
	return &Node{Variant: Checkbox, Name: name, Checked: checked}
}

// NewURL returns a link node. name may be empty.
func NewURL(url, name string) *Node {
	return &Node{Variant: URL, URL: url, Name: name}
}

// NewDate returns a date node; date is usually YYYY-MM-DD.
func NewDate(date string) *Node {
	return &Node{Variant: Date, Name: date}
}

// NewReference returns a reference to the node identified by targetID.
func NewReference(targetID, name string) *Node {
	return &Node{Variant: Reference, TargetID: targetID, Name: name}
}

// NewFile returns a file attachment node. The content type is derived from
// the filename, falling back to sniffing payload.
func NewFile(payload []byte, filename string) *Node {
	return &Node{
		Variant: File,
		File: &FileData{
			Payload:     payload,
			Filename:    filename,
			ContentType: ContentTypeFor(filename, payload),
		},
	}
}

// NewDummy returns a structural placeholder holding children.
func NewDummy(children ...*Node) *Node {
	n := &Node{Variant: Dummy}
	n.Append(children...)
	return n
}

// Append adds children at the end, creating the child list if absent.
func (n *Node) Append(children ...*Node) *Node {
	if n.Children == nil {
		n.Children = make([]*Node, 0, len(children))
	}
	n.Children = append(n.Children, children...)
	return n
}

// AddTags attaches supertags by id, skipping ids already present.
func (n *Node) AddTags(ids ...string) *Node {
	for _, id := range ids {
		if !n.HasTag(id) {
			n.Tags = append(n.Tags, Tag{ID: id})
		}
	}
	return n
}

// HasTag reports whether id is attached to n.
func (n *Node) HasTag(id string) bool {
	for _, t := range n.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// With returns a deep copy of n whose children are replaced by values. It is
// the usual way to fill a shared field template.
func (n *Node) With(values ...*Node) *Node {
	c := n.Clone()
	c.Children = make([]*Node, len(values))
	for i, v := range values {
		c.Children[i] = v.Clone()
	}
	return c
}

// Clone creates a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	clone := *n
	if n.Tags != nil {
		clone.Tags = append([]Tag(nil), n.Tags...)
	}
	if n.File != nil {
		f := *n.File
		f.Payload = append([]byte(nil), n.File.Payload...)
		clone.File = &f
	}
	if n.Children != nil {
		clone.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			clone.Children[i] = child.Clone()
		}
	}
	return &clone
}

// Walk traverses the tree in depth-first order, calling fn for each node.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// String returns a JSON representation of the node for debugging.
func (n *Node) String() string {
	b, _ := json.MarshalIndent(n, "", "  ")
	return string(b)
}

// FlattenDummies returns nodes with every Dummy replaced by its children,
// recursively. The input is not modified.
func FlattenDummies(nodes []*Node) []*Node {
	var out []*Node
	for _, n := range nodes {
		if n.Variant == Dummy {
			out = append(out, FlattenDummies(n.Children)...)
			continue
		}
		c := *n
		if n.Children != nil {
			c.Children = FlattenDummies(n.Children)
			if c.Children == nil {
				c.Children = []*Node{}
			}
		}
		out = append(out, &c)
	}
	return out
}
