package slides

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/outline"
)

var testIDs = IDs{SlideTag: "SLIDE", ImageField: "IMG", MarkdownField: "MD"}

func TestCollectorSplitsSlides(t *testing.T) {
	c := NewCollector("")
	c.PutTitle("First", 0)
	c.PutList("point", 0)
	c.PutList("detail", 1)
	c.PutPara(NextSlide)
	c.PutTitle("Second", 0)
	c.PutPara("closing words")

	got := c.Slides()
	want := []Slide{
		{Title: "First", Entries: []outline.Entry{{Text: "point", Level: 0}, {Text: "detail", Level: 1}}},
		{Title: "Second", Entries: []outline.Entry{{Text: "closing words", Level: 0}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Slides() mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorTable(t *testing.T) {
	c := NewCollector("TBL")
	c.PutTable([][]string{
		{"Name", "Owner", "Notes"},
		{"Search", "", "fast\nsimple"},
		{"Sync", "Kai"},
	})

	got := c.Slides()[0].Entries
	want := []outline.Entry{
		{Text: "TBL", Level: 0},
		{Text: "1", Level: 1},
		{Text: "Name::", Level: 2},
		{Text: "Search", Level: 3},
		{Text: "Notes::", Level: 2},
		{Text: "fast", Level: 3},
		{Text: "simple", Level: 3},
		{Text: "2", Level: 1},
		{Text: "Name::", Level: 2},
		{Text: "Sync", Level: 3},
		{Text: "Owner::", Level: 2},
		{Text: "Kai", Level: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table entries mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectorRunFormatting(t *testing.T) {
	c := NewCollector("")
	if got := c.Accent("  word "); got != " __word__ " {
		t.Errorf("Accent() = %q", got)
	}
	if got := c.Strong("word"); got != " **word** " {
		t.Errorf("Strong() = %q", got)
	}
}

func TestTableBuildsFields(t *testing.T) {
	c := NewCollector("TBL")
	c.PutTable([][]string{{"Owner"}, {"Kai"}})

	resolver := outline.FieldResolverFunc(func(_ context.Context, name string) (string, error) {
		return "F-" + name, nil
	})
	b := outline.NewBuilder(outline.WithTableMarker("TBL"), outline.WithTableTag("TABLE"), outline.WithFieldResolver(resolver))
	nodes, err := b.Build(context.Background(), c.Slides()[0].Entries)
	if err != nil {
		t.Fatal(err)
	}

	got, err := node.RenderAll(nodes, node.Names{"TABLE": "Table", "F-Owner": "Owner"})
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"- Table #[[Table^TABLE]]",
		"  - 1",
		"    - [[Owner^F-Owner]]::",
		"      - Kai",
	}, "\n")
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestLoadDeck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deck.yaml")
	data := `
name: Q3 review
images: png
slides:
  - title: Intro
    blocks:
      - list: Goals
      - list: Ship it
        level: 1
      - runs:
          - text: "Launch "
          - text: now
            strong: true
          - text: " or "
          - text: later
            accent: true
        level: 1
  - title: Numbers
    image: numbers.png
    blocks:
      - para: A paragraph
      - table:
          - [Metric, Value]
          - [Users, "10"]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := LoadDeck(path)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "Q3 review" || d.Images != filepath.Join(dir, "png") {
		t.Errorf("deck = %q in %q", d.Name, d.Images)
	}

	slides := d.Collect("TBL")
	if len(slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(slides))
	}
	if slides[0].Image != "slide1.png" || slides[1].Image != "numbers.png" {
		t.Errorf("images = %q, %q", slides[0].Image, slides[1].Image)
	}
	if len(slides[0].Entries) != 3 || slides[0].Entries[1].Level != 1 {
		t.Fatalf("first slide entries = %+v", slides[0].Entries)
	}
	if got := slides[0].Entries[2]; got.Text != "Launch **now** or __later__" || got.Level != 1 {
		t.Errorf("formatted runs = %+v", got)
	}
	if slides[1].Entries[0].Text != "A paragraph" || slides[1].Entries[1].Text != "TBL" {
		t.Errorf("second slide entries = %+v", slides[1].Entries)
	}
}

func TestNewSlideNode(t *testing.T) {
	content := node.Texts("point")

	tests := []struct {
		name     string
		title    string
		content  []*node.Node
		wantName string
		wantKids int
	}{
		{"with text", "Intro", content, "Intro", 2},
		{"image only", "Cover", nil, "Cover", 1},
		{"untitled", "", nil, UntitledSlide, 1},
		{"untitled with text", "", content, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewSlideNode(testIDs, tt.title, tt.content, "slide1.png", []byte("png"))
			if n.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", n.Name, tt.wantName)
			}
			if len(n.Children) != tt.wantKids {
				t.Fatalf("got %d children, want %d", len(n.Children), tt.wantKids)
			}
			if !n.HasTag("SLIDE") {
				t.Error("slide tag missing")
			}
			img := n.Children[0]
			if img.AttributeID != "IMG" || img.Children[0].Variant != node.File {
				t.Errorf("unexpected image field %v", img)
			}
			if tt.wantKids == 2 && n.Children[1].AttributeID != "MD" {
				t.Errorf("unexpected markdown field %v", n.Children[1])
			}
		})
	}
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	src.Set(10, 10, color.White)

	if got := Scale(src, 1); got != image.Image(src) {
		t.Error("zoom 1 should return the source")
	}
	got := Scale(src, 0.5).Bounds()
	if got.Dx() != 100 || got.Dy() != 50 {
		t.Errorf("scaled bounds = %v", got)
	}
	if tiny := Scale(src, 0.0001).Bounds(); tiny.Dx() != 1 || tiny.Dy() != 1 {
		t.Errorf("tiny bounds = %v", tiny)
	}
}

func TestImageDirRasterize(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 80, 40))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "slide1.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := ImageDir{Dir: dir}.Rasterize(context.Background(), "slide1.png", 0.25)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v, want 20x10", b)
	}

	if _, err := (ImageDir{Dir: dir}).Rasterize(context.Background(), "missing.png", 1); err == nil {
		t.Error("expected error for missing image")
	}
}

// sizedRaster returns base*zoom bytes, or base bytes when fixed.
type sizedRaster struct {
	base  int
	fixed bool
	zooms []float64
}

func (r *sizedRaster) Rasterize(_ context.Context, _ string, zoom float64) ([]byte, error) {
	r.zooms = append(r.zooms, zoom)
	n := r.base
	if !r.fixed {
		n = int(float64(r.base) * zoom)
	}
	return make([]byte, n), nil
}

// encodingSubmitter encodes like the real client so oversized files fail.
type encodingSubmitter struct {
	targets []string
	sent    [][]*node.Node
	nextID  string
}

func (s *encodingSubmitter) Submit(_ context.Context, target string, nodes ...*node.Node) (*node.Node, error) {
	if _, err := node.EncodeAll(nodes); err != nil {
		return nil, err
	}
	s.targets = append(s.targets, target)
	s.sent = append(s.sent, nodes)
	created := node.NewGeneric("")
	for _, n := range nodes {
		c := n.Clone()
		c.NodeID = s.nextID
		created.Append(c)
	}
	return created, nil
}

func TestUploadSlideRescales(t *testing.T) {
	sub := &encodingSubmitter{}
	raster := &sizedRaster{base: 6000}
	var progress bytes.Buffer
	u := NewUploader(sub, raster, testIDs, WithProgress(&progress))

	n, err := u.Upload(context.Background(), "TARGET", []Slide{{Title: "Intro", Image: "slide1.png"}})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if n != 1 {
		t.Errorf("uploaded %d slides, want 1", n)
	}
	// 6000 bytes encode to 8000 chars, so the second try is at 4900/8000
	want := []float64{1, 0.6125}
	if diff := cmp.Diff(want, raster.zooms); diff != "" {
		t.Errorf("zooms mismatch (-want +got):\n%s", diff)
	}
	if len(sub.sent) != 1 || sub.targets[0] != "TARGET" {
		t.Errorf("expected one accepted submission to TARGET, got %v", sub.targets)
	}
	if !strings.Contains(progress.String(), "zoom 0.61") {
		t.Errorf("progress missing rescale notice: %q", progress.String())
	}
	if !strings.Contains(progress.String(), "slide1.png fits at zoom 0.61") {
		t.Errorf("progress missing fit notice: %q", progress.String())
	}
}

func TestUploadSlideGivesUp(t *testing.T) {
	u := NewUploader(&encodingSubmitter{}, &sizedRaster{base: 6000, fixed: true}, testIDs)
	err := u.UploadSlide(context.Background(), "T", Slide{Image: "slide1.png"})
	if !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("expected ErrImageTooLarge, got %v", err)
	}
}

func TestUploadStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("raster failed")
	u := NewUploader(&encodingSubmitter{}, rasterFunc(func(name string) ([]byte, error) {
		if name == "slide2.png" {
			return nil, boom
		}
		return []byte("ok"), nil
	}), testIDs)

	n, err := u.Upload(context.Background(), "T", []Slide{{Image: "slide1.png"}, {Image: "slide2.png"}, {Image: "slide3.png"}})
	if !errors.Is(err, boom) || n != 1 {
		t.Errorf("Upload() = %d, %v", n, err)
	}
}

type rasterFunc func(name string) ([]byte, error)

func (f rasterFunc) Rasterize(_ context.Context, name string, _ float64) ([]byte, error) {
	return f(name)
}

func TestResolveTarget(t *testing.T) {
	sub := &encodingSubmitter{nextID: "NEW"}
	u := NewUploader(sub, &sizedRaster{}, testIDs)

	tests := []struct {
		target string
		want   string
	}{
		{"abc123", "abc123"},
		{"https://app.tana.inc?nodeid=xyz", "xyz"},
		{"", "NEW"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			got, err := u.ResolveTarget(context.Background(), tt.target, "deck.pptx")
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ResolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
			}
		})
	}

	if sub.targets[0] != "INBOX" || sub.sent[0][0].Name != "Slides (deck.pptx)" {
		t.Errorf("unexpected slides node %v under %q", sub.sent[0][0], sub.targets[0])
	}
	if _, err := u.ResolveTarget(context.Background(), "https://app.tana.inc", "d"); err == nil {
		t.Error("expected error for URL without node id")
	}
}
