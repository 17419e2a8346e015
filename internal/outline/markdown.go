package outline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownDoc is a markdown outline and its front matter.
type MarkdownDoc struct {
	Title   string   `yaml:"title"`
	Tags    []string `yaml:"tags"`
	Target  string   `yaml:"target"`
	Entries []Entry  `yaml:"-"`
}

// ParseMarkdown reads optional YAML front matter and flattens the body with
// EntriesFromMarkdown.
func ParseMarkdown(source []byte) (MarkdownDoc, error) {
	var doc MarkdownDoc
	body, err := frontmatter.Parse(bytes.NewReader(source), &doc)
	if err != nil {
		return MarkdownDoc{}, fmt.Errorf("parse frontmatter: %w", err)
	}
	doc.Entries = EntriesFromMarkdown(body)
	return doc, nil
}

// EntriesFromMarkdown flattens markdown into outline entries. A header of
// depth d is at level d-1 and everything up to the next header nests under
// it. List items go one level deeper per list nesting. Paragraphs are one
// entry each, with inline markup kept as written; code blocks give one entry
// per non-blank line, at the level the block sits at.
func EntriesFromMarkdown(source []byte) []Entry {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		entries []Entry
		base    int
		depth   int
	)
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindList:
			if entering {
				depth++
			} else {
				depth--
			}
		case ast.KindHeading:
			if entering {
				level := n.(*ast.Heading).Level - 1
				entries = append(entries, Entry{Text: blockText(n, source, " "), Level: level})
				base = level + 1
			}
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph, ast.KindTextBlock:
			if entering {
				entries = append(entries, Entry{Text: blockText(n, source, " "), Level: blockLevel(n, base, depth)})
			}
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			if entering {
				level := blockLevel(n, base, depth)
				for _, line := range strings.Split(blockText(n, source, ""), "\n") {
					if strings.TrimSpace(line) != "" {
						entries = append(entries, Entry{Text: line, Level: level})
					}
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return entries
}

// blockLevel places the first block of a list item at the item's level and
// any later block one level under it.
func blockLevel(n ast.Node, base, depth int) int {
	if depth == 0 {
		return base
	}
	level := base + depth - 1
	if _, ok := n.Parent().(*ast.ListItem); ok && n.PreviousSibling() != nil {
		level++
	}
	return level
}

// blockText joins the raw source lines of a block. Lines are trimmed and
// joined by sep; an empty sep keeps them verbatim, as code.
func blockText(n ast.Node, source []byte, sep string) string {
	lines := n.Lines()
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		line := string(seg.Value(source))
		if sep != "" {
			line = strings.TrimSpace(line)
		}
		parts = append(parts, line)
	}
	return strings.TrimRight(strings.Join(parts, sep), "\n")
}
