package node

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderOutline(t *testing.T) {
	intro := NewPlain("Intro")
	pointA := NewPlain("Point A")
	pointA.Append(NewPlain("Sub-point"))
	intro.Append(pointA, NewPlain("Point B"))

	got, err := Render(intro, nil)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := strings.Join([]string{
		"- Intro",
		"  - Point A",
		"    - Sub-point",
		"  - Point B",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderVariants(t *testing.T) {
	names := Names{"F1": "Summary", "T1": "Meeting"}

	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"checkbox unchecked", NewCheckbox("Buy milk", false), "- [ ] Buy milk"},
		{"checkbox checked", NewCheckbox("Buy milk", true), "- [x] Buy milk"},
		{"field", NewField("F1"), "- [[Summary^F1]]::"},
		{"unresolved field", NewField("F9"), "- [[^F9]]::"},
		{"reference", NewReference("abc123", "Target"), "- [[Target^abc123]]"},
		{"url with name", NewURL("https://example.com", "Example"), "- [Example](https://example.com)"},
		{"url without name", NewURL("https://example.com", ""), "- [https://example.com](https://example.com)"},
		{"date", NewDate("2024-03-01"), "- [[date:2024-03-01]]"},
		{"plain", NewPlain("hello"), "- hello"},
		{"generic", NewGeneric("box"), "- box"},
		{"tagged", NewPlain("Standup").AddTags("T1", "T2"), "- Standup #[[Meeting^T1]] #[[^T2]]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.node, names)
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderFieldChildren(t *testing.T) {
	summary := NewField("F1", NewPlain("All good"))
	got, err := Render(summary, Names{"F1": "Summary"})
	if err != nil {
		t.Fatal(err)
	}
	want := "- [[Summary^F1]]::\n  - All good"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderDummyKeepsIndent(t *testing.T) {
	root := NewPlain("root")
	root.Append(NewDummy(NewDummy(NewPlain("deep"))), NewPlain("next"))

	got, err := Render(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "- root\n  - deep\n  - next"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestRenderSentinel(t *testing.T) {
	got, err := Render(NewPlain("x"), nil, WithSentinel(true))
	if err != nil {
		t.Fatal(err)
	}
	if got != "%%tana%%\n- x" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderIdempotent(t *testing.T) {
	root := NewPlain("Meeting").AddTags("T1")
	root.Append(NewField("F1", NewPlain("text")), NewCheckbox("todo", true), NewDummy(NewPlain("child")))

	first, err := Render(root, Names{"F1": "Summary"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(root, Names{"F1": "Summary"})
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("renders differ:\n%s\n---\n%s", first, second)
	}
}

func TestRenderColorsKeepText(t *testing.T) {
	colors := &Colors{Map: nil, Default: func(format string, args ...any) string {
		return "<" + args[0].(string) + ">"
	}}
	got, err := Render(NewCheckbox("x", true), nil, WithColors(colors))
	if err != nil {
		t.Fatal(err)
	}
	if got != "<-> <[x]> x" {
		t.Errorf("Render() = %q", got)
	}
}

func TestRenderMultilineName(t *testing.T) {
	root := NewPlain("Code").Append(NewPlain("first()\nsecond()").AddTags("T"))
	got, err := Render(root, Names{"T": "Snippet"})
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"- Code",
		"  - first() #[[Snippet^T]]",
		"    second()",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderUnknownVariant(t *testing.T) {
	_, err := Render(&Node{Variant: Variant(42)}, nil)
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}
