package slides

import (
	"github.com/itsmostafa/tanaline/internal/node"
)

// UntitledSlide names slides that have neither a title nor text.
const UntitledSlide = "Untitled Slide"

// IDs are the workspace ids a slide node is built from.
type IDs struct {
	SlideTag      string
	ImageField    string
	MarkdownField string
}

// NewSlideNode returns the node for one slide: the image field holding the
// page image and, when the slide has text, a markdown field holding content.
func NewSlideNode(ids IDs, title string, content []*node.Node, imageName string, image []byte) *node.Node {
	imgField := node.NewField(ids.ImageField, node.NewFile(image, imageName))

	if len(content) == 0 {
		if title == "" {
			title = UntitledSlide
		}
		return node.NewPlain(title).AddTags(ids.SlideTag).Append(imgField)
	}
	mdField := node.NewField(ids.MarkdownField, content...)
	return node.NewPlain(title).AddTags(ids.SlideTag).Append(imgField, mdField)
}
