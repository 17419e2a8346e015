// Package slides turns extracted slide decks into slide nodes: a title, the
// rendered page image and the slide text rebuilt as an outline.
package slides

import (
	"strconv"
	"strings"

	"github.com/itsmostafa/tanaline/internal/outline"
)

// NextSlide is the paragraph text an extractor emits between slides.
const NextSlide = "\n---\n"

// Slide is the text content of one slide.
type Slide struct {
	Title   string          `yaml:"title"`
	Image   string          `yaml:"image,omitempty"`
	Entries []outline.Entry `yaml:"entries,omitempty"`
}

// Collector receives extractor callbacks and groups them into slides.
type Collector struct {
	tableMarker string
	slides      []*Slide
}

// NewCollector returns a collector with one empty slide open. Tables are
// introduced by tableMarker, which the outline builder must be configured
// with too.
func NewCollector(tableMarker string) *Collector {
	if tableMarker == "" {
		tableMarker = outline.DefaultTableMarker
	}
	c := &Collector{tableMarker: tableMarker}
	c.next()
	return c
}

func (c *Collector) next() {
	c.slides = append(c.slides, &Slide{})
}

func (c *Collector) cur() *Slide {
	return c.slides[len(c.slides)-1]
}

// PutTitle sets the title of the current slide.
func (c *Collector) PutTitle(text string, _ int) {
	c.cur().Title = text
}

// PutList adds a list item at level.
func (c *Collector) PutList(text string, level int) {
	s := c.cur()
	s.Entries = append(s.Entries, outline.Entry{Text: text, Level: level})
}

// PutPara adds a top level paragraph, or opens the next slide when text is
// NextSlide.
func (c *Collector) PutPara(text string) {
	if text == NextSlide {
		c.next()
		return
	}
	c.PutList(text, 0)
}

// PutTable expands a table into entries: the table marker, one numbered
// entry per row, and under it a "header::" field per non-empty cell holding
// the cell's lines. The first row is the header.
func (c *Collector) PutTable(table [][]string) {
	if len(table) == 0 {
		return
	}
	headers, rows := table[0], table[1:]
	c.PutList(c.tableMarker, 0)
	for i, row := range rows {
		c.PutList(strconv.Itoa(i+1), 1)
		for col, val := range row {
			if val == "" || col >= len(headers) {
				continue
			}
			c.PutList(headers[col]+"::", 2)
			for _, line := range strings.Split(val, "\n") {
				c.PutList(line, 3)
			}
		}
	}
}

// Accent formats emphasized run text.
func (c *Collector) Accent(text string) string {
	return " __" + strings.TrimSpace(text) + "__ "
}

// Strong formats bold run text.
func (c *Collector) Strong(text string) string {
	return " **" + strings.TrimSpace(text) + "** "
}

// JoinRuns concatenates runs into one line of item text, marking accented
// and strong runs.
func (c *Collector) JoinRuns(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		switch {
		case r.Strong:
			sb.WriteString(c.Strong(r.Text))
		case r.Accent:
			sb.WriteString(c.Accent(r.Text))
		default:
			sb.WriteString(r.Text)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Slides returns the collected slides. The last slide is kept even when the
// extractor ended with a separator.
func (c *Collector) Slides() []Slide {
	out := make([]Slide, len(c.slides))
	for i, s := range c.slides {
		out[i] = *s
	}
	return out
}
