package node

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// MaxFileLen is the longest base64 file string the input API accepts.
	MaxFileLen = 4900

	// DefaultURLAttribute is the attribute URL nodes are wrapped in.
	DefaultURLAttribute = "URLFieldId"
)

// Wire values for the "type" and "dataType" keys.
const (
	wireField     = "field"
	wireURL       = "url"
	wireDate      = "date"
	wireReference = "reference"
	wireBoolean   = "boolean"
	wireFile      = "file"
	wirePlain     = "plain"
	wireNode      = "node"
)

// ErrUnknownVariant signals a node whose variant has no serialization. It is a
// modeling defect, never a data problem.
var ErrUnknownVariant = errors.New("unknown node variant")

// LargeFileError is returned when an encoded file payload is too long to be
// posted. Callers shrink the source and try again.
type LargeFileError struct {
	EncodedSize int
	MaxSize     int
}

func (e *LargeFileError) Error() string {
	return fmt.Sprintf("file data string is too long to post: %d > %d", e.EncodedSize, e.MaxSize)
}

// Scale is the factor the source should be multiplied by to fit.
func (e *LargeFileError) Scale() float64 {
	if e.EncodedSize <= 0 {
		return 1
	}
	return float64(e.MaxSize) / float64(e.EncodedSize)
}

type encState struct {
	maxFileLen      int
	urlAttribute    string
	dummyContainers bool
}

// EncodeOption configures Encode.
type EncodeOption func(*encState)

// WithMaxFileLen overrides MaxFileLen. Zero or negative disables the check.
func WithMaxFileLen(n int) EncodeOption {
	return func(es *encState) { es.maxFileLen = n }
}

// WithURLAttribute sets the attribute id URL nodes are wrapped in.
func WithURLAttribute(id string) EncodeOption {
	return func(es *encState) { es.urlAttribute = id }
}

// WithDummyContainers emits Dummy nodes as nameless containers instead of
// splicing their children into the parent.
func WithDummyContainers(v bool) EncodeOption {
	return func(es *encState) { es.dummyContainers = v }
}

func newEncState(opts []EncodeOption) *encState {
	es := &encState{maxFileLen: MaxFileLen, urlAttribute: DefaultURLAttribute}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// Encode converts n into the document posted to the input API. Absent fields
// are omitted.
func Encode(n *Node, opts ...EncodeOption) (map[string]any, error) {
	// a top level dummy has no parent to splice into, so it is always sent as
	// a nameless container
	return newEncState(opts).encode(n)
}

// EncodeAll encodes a forest. Top level dummies are flattened unless
// WithDummyContainers is set.
func EncodeAll(nodes []*Node, opts ...EncodeOption) ([]map[string]any, error) {
	return newEncState(opts).encodeList(nodes)
}

func (es *encState) encodeList(nodes []*Node) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(nodes))
	for _, child := range nodes {
		if child.Variant == Dummy && !es.dummyContainers {
			spliced, err := es.encodeList(child.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, spliced...)
			continue
		}
		doc, err := es.encode(child)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (es *encState) encode(n *Node) (map[string]any, error) {
	switch n.Variant {
	case Plain, Generic:
		return es.container(n, n.Name)
	case Dummy:
		return es.container(n, "")
	case Field:
		doc := map[string]any{
			"type":        wireField,
			"attributeId": n.AttributeID,
		}
		if err := es.putChildren(doc, n); err != nil {
			return nil, err
		}
		return doc, nil
	case Checkbox:
		doc, err := es.container(n, n.Name)
		if err != nil {
			return nil, err
		}
		doc["dataType"] = wireBoolean
		doc["value"] = n.Checked
		return doc, nil
	case URL:
		// URL nodes wrap themselves in a URL field; the node's own name and
		// type are not sent.
		return map[string]any{
			"type":        wireField,
			"attributeId": es.urlAttribute,
			"children": []map[string]any{{
				"dataType": wireURL,
				"name":     n.URL,
			}},
		}, nil
	case Date:
		doc, err := es.container(n, n.Name)
		if err != nil {
			return nil, err
		}
		doc["dataType"] = wireDate
		return doc, nil
	case Reference:
		return map[string]any{
			"dataType": wireReference,
			"id":       n.TargetID,
		}, nil
	case File:
		return es.file(n)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownVariant, n.Variant)
	}
}

// container encodes the fields shared by named nodes. An empty name is
// absent and left out.
func (es *encState) container(n *Node, name string) (map[string]any, error) {
	doc := map[string]any{}
	if name != "" {
		doc["name"] = name
	}
	if n.Description != "" {
		doc["description"] = n.Description
	}
	if len(n.Tags) > 0 {
		tags := make([]map[string]any, len(n.Tags))
		for i, t := range n.Tags {
			tags[i] = map[string]any{"id": t.ID}
		}
		doc["supertags"] = tags
	}
	if err := es.putChildren(doc, n); err != nil {
		return nil, err
	}
	return doc, nil
}

func (es *encState) putChildren(doc map[string]any, n *Node) error {
	if len(n.Children) == 0 {
		return nil
	}
	children, err := es.encodeList(n.Children)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		doc["children"] = children
	}
	return nil
}

func (es *encState) file(n *Node) (map[string]any, error) {
	if n.File == nil {
		return nil, fmt.Errorf("file node %q has no file data", n.Name)
	}
	encoded := base64.StdEncoding.EncodeToString(n.File.Payload)
	if es.maxFileLen > 0 && len(encoded) > es.maxFileLen {
		return nil, &LargeFileError{EncodedSize: len(encoded), MaxSize: es.maxFileLen}
	}
	return map[string]any{
		"dataType":    wireFile,
		"file":        encoded,
		"filename":    n.File.Filename,
		"contentType": n.File.ContentType,
	}, nil
}

// wireDoc is the shape of nodes in API responses.
type wireDoc struct {
	Name        *string   `json:"name"`
	NodeID      string    `json:"nodeId"`
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	DataType    string    `json:"dataType"`
	AttributeID string    `json:"attributeId"`
	Value       any       `json:"value"`
	File        string    `json:"file"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Children    []wireDoc `json:"children"`
	Supertags   []Tag     `json:"supertags"`
}

// Decode parses a node document, typically an API response, into a tree.
func Decode(data []byte) (*Node, error) {
	var doc wireDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse node document: %w", err)
	}
	return doc.node()
}

// DecodeDocument converts a document produced by Encode back into a node.
func DecodeDocument(doc map[string]any) (*Node, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal node document: %w", err)
	}
	return Decode(data)
}

func (d wireDoc) node() (*Node, error) {
	n := &Node{NodeID: d.NodeID, Description: d.Description}
	if d.Name != nil {
		n.Name = *d.Name
	}
	if len(d.Supertags) > 0 {
		n.Tags = append([]Tag(nil), d.Supertags...)
	}

	switch {
	case d.Type == wireField && d.AttributeID != "" && isURLField(d):
		n.Variant = URL
		n.URL = *d.Children[0].Name
		return n, nil
	case d.Type == wireField:
		n.Variant = Field
		n.AttributeID = d.AttributeID
	case d.DataType == wireReference:
		n.Variant = Reference
		n.TargetID = d.ID
		if n.TargetID == "" {
			n.TargetID = d.NodeID
		}
		return n, nil
	case d.DataType == wireBoolean:
		n.Variant = Checkbox
		n.Checked = truthy(d.Value)
	case d.DataType == wireDate:
		n.Variant = Date
	case d.DataType == wireURL:
		n.Variant = URL
		n.URL = n.Name
	case d.DataType == wireFile:
		payload, err := base64.StdEncoding.DecodeString(d.File)
		if err != nil {
			return nil, fmt.Errorf("failed to decode file %q: %w", d.Filename, err)
		}
		n.Variant = File
		n.File = &FileData{Payload: payload, Filename: d.Filename, ContentType: d.ContentType}
	case d.DataType == "" || d.DataType == wirePlain || d.DataType == wireNode:
		n.Variant = Plain
	default:
		return nil, fmt.Errorf("%w: dataType %q", ErrUnknownVariant, d.DataType)
	}

	if d.Children != nil {
		n.Children = make([]*Node, 0, len(d.Children))
		for _, cd := range d.Children {
			child, err := cd.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		}
	}
	return n, nil
}

func isURLField(d wireDoc) bool {
	return len(d.Children) == 1 && d.Children[0].DataType == wireURL && d.Children[0].Name != nil
}

func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	default:
		return false
	}
}
