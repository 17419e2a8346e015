package slides

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Block is one extractor callback recorded in a deck file. Exactly one of
// List, Runs, Para or Table is set. Runs is a list item given as formatted
// text runs.
type Block struct {
	List  string     `yaml:"list,omitempty"`
	Runs  []Run      `yaml:"runs,omitempty"`
	Level int        `yaml:"level,omitempty"`
	Para  *string    `yaml:"para,omitempty"`
	Table [][]string `yaml:"table,omitempty"`
}

// Run is a span of list item text with its character formatting.
type Run struct {
	Text   string `yaml:"text"`
	Accent bool   `yaml:"accent,omitempty"`
	Strong bool   `yaml:"strong,omitempty"`
}

// DeckSlide is a slide as written in a deck file.
type DeckSlide struct {
	Title  string  `yaml:"title"`
	Image  string  `yaml:"image,omitempty"`
	Blocks []Block `yaml:"blocks,omitempty"`
}

// Deck is the extracted text of a presentation plus the directory holding
// its rendered page images.
type Deck struct {
	Name   string      `yaml:"name"`
	Images string      `yaml:"images,omitempty"`
	Slides []DeckSlide `yaml:"slides"`
}

// LoadDeck reads a deck file. A relative image directory is resolved against
// the file's directory; it defaults to that directory.
func LoadDeck(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck %s: %w", path, err)
	}
	if d.Name == "" {
		d.Name = filepath.Base(path)
	}
	if !filepath.IsAbs(d.Images) {
		d.Images = filepath.Join(filepath.Dir(path), d.Images)
	}
	return &d, nil
}

// Collect replays the deck through a Collector and returns its slides. Image
// names default to slideN.png.
func (d *Deck) Collect(tableMarker string) []Slide {
	c := NewCollector(tableMarker)
	for i, ds := range d.Slides {
		if i > 0 {
			c.PutPara(NextSlide)
		}
		c.PutTitle(ds.Title, 0)
		for _, b := range ds.Blocks {
			switch {
			case b.Table != nil:
				c.PutTable(b.Table)
			case b.Para != nil:
				c.PutPara(*b.Para)
			case len(b.Runs) > 0:
				c.PutList(c.JoinRuns(b.Runs), b.Level)
			default:
				c.PutList(b.List, b.Level)
			}
		}
	}

	out := c.Slides()
	for i := range out {
		if i < len(d.Slides) {
			out[i].Image = d.Slides[i].Image
		}
		if out[i].Image == "" {
			out[i].Image = fmt.Sprintf("slide%d.png", i+1)
		}
	}
	return out
}
