package outline

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/itsmostafa/tanaline/internal/node"
)

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   NoteLine
		wantOk bool
	}{
		{"text", "hello", NoteLine{Kind: TextLine, Text: "hello", Indent: 0}, true},
		{"indented text", "   hello", NoteLine{Kind: TextLine, Text: "hello", Indent: 3}, true},
		{"bullet", "  • item", NoteLine{Kind: BulletLine, Text: "item", Indent: 3}, true},
		{"topic", "(x) Agenda", NoteLine{Kind: TopicLine, Text: "Agenda", Indent: 1}, true},
		{"open topic", "( ) Agenda", NoteLine{Kind: TopicLine, Text: "Agenda", Indent: 1}, true},
		{"checked action", " [x] ship it", NoteLine{Kind: ActionLine, Text: "ship it", Checked: true, Indent: 3}, true},
		{"open action", "[ ] ship it", NoteLine{Kind: ActionLine, Text: "ship it", Indent: 2}, true},
		{"nbsp indented bullet", "\u00a0\u00a0• item", NoteLine{Kind: BulletLine, Text: "item", Indent: 3}, true},
		{"nbsp indented text", "\u2002note\u00a0", NoteLine{Kind: TextLine, Text: "note", Indent: 1}, true},
		{"bullet only", "  •  ", NoteLine{}, false},
		{"blank", "    ", NoteLine{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ClassifyLine(tt.line)
			if ok != tt.wantOk {
				t.Fatalf("ClassifyLine(%q) ok = %v, want %v", tt.line, ok, tt.wantOk)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyLine(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestPadderFillsSkippedLevels(t *testing.T) {
	root := node.NewPlain("root")
	p := NewPadder(root)
	if err := p.Add(node.NewPlain("top"), 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Add(node.NewPlain("deep"), 5); err != nil {
		t.Fatal(err)
	}
	if p.Indent() != 5 {
		t.Errorf("Indent() = %d, want 5", p.Indent())
	}

	want := []shape{{Name: "top", Children: []shape{{Name: "~", Children: []shape{
		{Name: "~", Children: []shape{{Name: "~", Children: []shape{{Name: "~", Children: []shape{
			{Name: "deep"},
		}}}}}},
	}}}}}
	if diff := cmp.Diff(want, shapeOf(root.Children)); diff != "" {
		t.Errorf("padded tree mismatch (-want +got):\n%s", diff)
	}

	// flattening the placeholders gives the nearest-ancestor result
	built, err := NewBuilder().Build(context.Background(), []Entry{{"top", 0}, {"deep", 5}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(shapeOf(built), shapeOf(node.FlattenDummies(root.Children))); diff != "" {
		t.Errorf("flattened tree mismatch (-builder +padder):\n%s", diff)
	}
}

func TestPadderNestsUnderPaddedNode(t *testing.T) {
	root := node.NewPlain("root")
	p := NewPadder(root)
	steps := []struct {
		name   string
		indent int
	}{
		{"a", 0}, {"b", 2}, {"c", 3}, {"d", 1}, {"e", 0},
	}
	for _, s := range steps {
		if err := p.Add(node.NewPlain(s.name), s.indent); err != nil {
			t.Fatal(err)
		}
	}
	want := []shape{
		{Name: "a", Children: []shape{
			{Name: "~", Children: []shape{{Name: "b", Children: []shape{{Name: "c"}}}}},
			{Name: "d"},
		}},
		{Name: "e"},
	}
	if diff := cmp.Diff(want, shapeOf(root.Children)); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNotes(t *testing.T) {
	text := strings.Join([]string{
		"(x) Updates",
		"  • shipped the importer",
		"    details here",
		"",
		"[ ] follow up with design",
		"[x] send recap",
		"closing words",
	}, "\n")

	root := node.NewPlain("Weekly")
	if err := ParseNotes(root, text); err != nil {
		t.Fatalf("ParseNotes() error = %v", err)
	}

	got, err := node.Render(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"- Weekly",
		"  - **Updates**",
		"    - shipped the importer",
		"      - details here",
		"    - [ ] follow up with design",
		"    - [x] send recap",
		"  - closing words",
	}, "\n")
	if got != want {
		t.Errorf("rendered notes =\n%s\nwant\n%s", got, want)
	}
}
