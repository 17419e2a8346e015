package meeting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/outline"
)

var fellowPairRe = regexp.MustCompile(`'(.*?)':\s+'(.*?)'`)

// FellowEvent is the note payload Fellow posts.
type FellowEvent struct {
	Title      string
	EventStart string
	URL        string
	NoteText   string
}

// ParseFellowEvent reads the quoted key/value pairs of a Fellow webhook body.
func ParseFellowEvent(body string) (FellowEvent, error) {
	body = strings.Trim(body, "\"- \n")
	pairs := map[string]string{}
	for _, m := range fellowPairRe.FindAllStringSubmatch(body, -1) {
		pairs[m[1]] = m[2]
	}

	var missing []string
	for _, key := range []string{"title", "event_start", "fellow_url", "note_text"} {
		if _, ok := pairs[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return FellowEvent{}, wrapInvalidEvent(fmt.Errorf("fellow event missing %s", strings.Join(missing, ", ")))
	}

	return FellowEvent{
		Title:      pairs["title"],
		EventStart: pairs["event_start"],
		URL:        pairs["fellow_url"],
		NoteText:   strings.ReplaceAll(pairs["note_text"], `\\n`, "\n"),
	}, nil
}

// Tree returns the meeting node: tagged title, date field, link back to
// Fellow, then the notes.
func (e FellowEvent) Tree(ids IDs) (*node.Node, error) {
	date := datePart(e.EventStart)
	root := node.NewPlain(e.Title).AddTags(ids.MeetingTag).Append(
		node.NewField(ids.DateField, node.NewDate(date)),
		node.NewURL(e.URL, fmt.Sprintf("Link to Fellow Meeting: %s on %s", e.Title, date)),
	)
	if err := outline.ParseNotes(root, e.NoteText); err != nil {
		return nil, err
	}
	return root, nil
}

// FellowNotes converts a Fellow webhook body to paste markup.
func FellowNotes(body string, ids IDs) (Result, error) {
	ev, err := ParseFellowEvent(body)
	if err != nil {
		return Result{}, err
	}
	root, err := ev.Tree(ids)
	if err != nil {
		return Result{}, wrapRenderError(err)
	}
	markup, err := node.Render(root, ids.Names())
	if err != nil {
		return Result{}, wrapRenderError(err)
	}
	return ok(markup), nil
}
