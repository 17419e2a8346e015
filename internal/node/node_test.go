package node

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVariantString(t *testing.T) {
	for v := Plain; v <= Generic; v++ {
		parsed, err := ParseVariant(v.String())
		if err != nil {
			t.Fatalf("ParseVariant(%q) error = %v", v.String(), err)
		}
		if parsed != v {
			t.Errorf("ParseVariant(%q) = %v, want %v", v.String(), parsed, v)
		}
	}
	if _, err := ParseVariant("bogus"); err == nil {
		t.Error("expected error for unknown variant")
	}
	if got := Variant(42).String(); got != "Variant(42)" {
		t.Errorf("String() = %q", got)
	}
}

func TestAppendDistinguishesAbsent(t *testing.T) {
	n := NewPlain("x")
	if n.Children != nil {
		t.Fatal("new node should have absent children")
	}
	n.Append()
	if n.Children == nil || len(n.Children) != 0 {
		t.Errorf("Append() should create an empty child list, got %v", n.Children)
	}
}

func TestAddTagsDeduplicates(t *testing.T) {
	n := NewPlain("x").AddTags("a", "b", "a")
	want := []Tag{{ID: "a"}, {ID: "b"}}
	if diff := cmp.Diff(want, n.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestWithCopiesTemplate(t *testing.T) {
	summary := NewField("F1")
	filled := summary.With(NewPlain("text"))

	if summary.Children != nil {
		t.Error("template should not be modified")
	}
	if filled.AttributeID != "F1" || len(filled.Children) != 1 || filled.Children[0].Name != "text" {
		t.Errorf("unexpected filled field: %v", filled)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := NewPlain("a").AddTags("t").Append(NewFile([]byte{1, 2}, "f.bin"))
	clone := orig.Clone()
	if diff := cmp.Diff(orig, clone); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	clone.Children[0].File.Payload[0] = 9
	clone.Tags[0].ID = "u"
	if orig.Children[0].File.Payload[0] != 1 || orig.Tags[0].ID != "t" {
		t.Error("clone shares memory with original")
	}
}

func TestWalkOrder(t *testing.T) {
	root := NewGeneric("r", NewPlain("a").Append(NewPlain("b")), NewPlain("c"))
	var names []string
	root.Walk(func(n *Node) { names = append(names, n.Name) })
	if diff := cmp.Diff([]string{"r", "a", "b", "c"}, names); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestFlattenDummies(t *testing.T) {
	nodes := []*Node{
		NewPlain("a").Append(NewDummy(NewDummy(NewPlain("b")))),
		NewDummy(NewPlain("c")),
	}
	got := FlattenDummies(nodes)
	want := []*Node{
		{Variant: Plain, Name: "a", Children: []*Node{{Variant: Plain, Name: "b"}}},
		{Variant: Plain, Name: "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FlattenDummies() mismatch (-want +got):\n%s", diff)
	}
	if nodes[0].Children[0].Variant != Dummy {
		t.Error("input was modified")
	}
}

func TestContentTypeFor(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	tests := []struct {
		name     string
		filename string
		payload  []byte
		want     string
	}{
		{"png extension", "slide1.png", nil, "image/png"},
		{"upper case extension", "photo.JPG", nil, "image/jpeg"},
		{"sniffed", "slide", png, "image/png"},
		{"empty", "noext", nil, "application/octet-stream"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentTypeFor(tt.filename, tt.payload); got != tt.want {
				t.Errorf("ContentTypeFor(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}
