// Package meeting converts meeting tool webhooks (Fellow notes, Sembly
// summaries and transcripts) into node trees, and sums purchase order totals.
package meeting

import (
	"net/http"
	"strings"

	"github.com/itsmostafa/tanaline/internal/node"
)

// Result is what every pipeline returns to its caller.
type Result struct {
	StatusCode int `json:"statusCode"`
	Body       any `json:"body"`
}

func ok(body any) Result {
	return Result{StatusCode: http.StatusOK, Body: body}
}

// IDs are the workspace ids meeting nodes use.
type IDs struct {
	MeetingTag      string
	SummaryField    string
	DateField       string
	TranscriptField string
}

// Names returns display names for ids, for markup rendering.
func (ids IDs) Names() node.Names {
	return node.Names{
		ids.MeetingTag:      "Meeting",
		ids.SummaryField:    "Summary",
		ids.DateField:       "Date",
		ids.TranscriptField: "Transcript",
	}
}

// FormatEventBody unquotes a webhook body and turns escaped newlines into
// real ones.
func FormatEventBody(body string) string {
	body = strings.Trim(body, `"`)
	body = strings.ReplaceAll(body, `\\n`, "\n")
	return strings.ReplaceAll(body, `\n`, "\n")
}

// datePart returns the date of an ISO 8601 timestamp.
func datePart(ts string) string {
	date, _, _ := strings.Cut(ts, "T")
	return date
}
