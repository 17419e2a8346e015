package meeting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/tana"
)

// TranscriptBatchSize is how many transcript blocks go in one submission.
const TranscriptBatchSize = 90

// outline headers look like "1. Intro • 00:01:02"; the bullet sometimes
// arrives mis-decoded as "â€¢"
var semblyHeaderRe = regexp.MustCompile(`\d+.* (•|â€¢) \d+:\d\d:\d\d`)

// SemblyEvent is the JSON body Sembly posts.
type SemblyEvent struct {
	Title         string `json:"meeting_title"`
	StartedAt     string `json:"meeting_started_at"`
	Notes         string `json:"meeting_notes"`
	Transcription string `json:"meeting_transcription"`
}

// ParseSemblyEvent decodes a Sembly webhook body.
func ParseSemblyEvent(body []byte) (SemblyEvent, error) {
	var ev SemblyEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return SemblyEvent{}, wrapInvalidEvent(fmt.Errorf("failed to decode sembly event: %w", err))
	}
	if ev.Title == "" {
		return SemblyEvent{}, wrapInvalidEvent(errors.New("sembly event has no meeting_title"))
	}
	return ev, nil
}

// SummaryTree returns the meeting node for a summary: summary and date
// fields, then the outline grouped under its timestamped headers.
func (e SemblyEvent) SummaryTree(ids IDs) (*node.Node, error) {
	lines := strings.Split(strings.ReplaceAll(e.Notes, "\r\n", "\n"), "\n")
	if len(lines) < 4 {
		return nil, wrapInvalidEvent(fmt.Errorf("meeting_notes has %d lines, want at least 4", len(lines)))
	}
	summary, outlineHead, outlineLines := lines[1], lines[3], lines[4:]

	top := node.NewPlain(outlineHead).Append()
	root := node.NewPlain(e.Title).AddTags(ids.MeetingTag).Append(
		node.NewField(ids.SummaryField, node.NewPlain(summary)),
		node.NewField(ids.DateField, node.NewDate(datePart(e.StartedAt))),
		top,
	)

	base := top
	for _, line := range outlineLines {
		if semblyHeaderRe.MatchString(line) {
			base = node.NewPlain(line).Append()
			top.Append(base)
			continue
		}
		if text := strings.Trim(line, " -"); text != "" {
			base.Append(node.NewPlain(text))
		}
	}
	return root, nil
}

// TranscriptBlocks splits the transcription into speaker blocks. A speaker
// with one line becomes "**Speaker:** line"; longer turns keep the lines as
// children.
func (e SemblyEvent) TranscriptBlocks() []*node.Node {
	var blocks []*node.Node
	for _, block := range strings.Split(e.Transcription, "\n\n") {
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i := range lines {
			lines[i] = strings.TrimSpace(lines[i])
		}
		speaker, text := lines[0], lines[1:]
		switch len(text) {
		case 0:
			blocks = append(blocks, node.NewPlain(speaker))
		case 1:
			blocks = append(blocks, node.NewPlain(fmt.Sprintf("**%s:** %s", speaker, text[0])))
		default:
			blocks = append(blocks, node.NewPlain(speaker).Append(node.Texts(text...)...))
		}
	}
	return blocks
}

// Summary submits a Sembly summary to the inbox.
func Summary(ctx context.Context, sub tana.Submitter, body []byte, ids IDs, logger logging.Logger) (Result, error) {
	logger = logging.OrNoOp(logger)
	ev, err := ParseSemblyEvent(body)
	if err != nil {
		return Result{}, err
	}
	root, err := ev.SummaryTree(ids)
	if err != nil {
		return Result{}, err
	}

	// a rejected payload is dumped once, by the client
	if _, err := tana.NewBatch(sub, root).TargetInbox().Submit(ctx, false); err != nil {
		return Result{}, wrapSubmitError(err)
	}
	logger.Info("summary submitted", "title", ev.Title)
	return ok("success"), nil
}

// Transcript submits a Sembly transcript to the inbox. The first batch of
// blocks is created with the meeting node; the rest follow in order under
// the transcript node the first submission created.
func Transcript(ctx context.Context, sub tana.Submitter, body []byte, ids IDs, logger logging.Logger) (Result, error) {
	logger = logging.OrNoOp(logger)
	ev, err := ParseSemblyEvent(body)
	if err != nil {
		return Result{}, err
	}
	blocks := ev.TranscriptBlocks()
	first, rest := splitBatch(blocks, TranscriptBatchSize)

	transcript := node.NewPlain("Sembly Transcript").Append(first...)
	root := node.NewPlain(ev.Title).Append(node.NewField(ids.TranscriptField, transcript))

	batch := tana.NewBatch(sub, root).TargetInbox()
	created, err := batch.Submit(ctx, true)
	if err != nil {
		return Result{}, wrapSubmitError(err)
	}
	if len(created.Children) == 0 || len(created.Children[0].Children) == 0 {
		return Result{}, wrapSubmitError(errors.New("response has no transcript node"))
	}
	transcriptID := created.Children[0].Children[0].NodeID
	batch.SetTarget(transcriptID)

	for sent := len(first); len(rest) > 0; {
		var next []*node.Node
		next, rest = splitBatch(rest, TranscriptBatchSize)
		if _, err := batch.AddChildren(next...).Submit(ctx, true); err != nil {
			return Result{}, wrapSubmitError(fmt.Errorf("after %d of %d blocks: %w", sent, len(blocks), err))
		}
		sent += len(next)
	}
	logger.Info("transcript submitted", "title", ev.Title, "blocks", len(blocks))
	return ok("success"), nil
}

func splitBatch(nodes []*node.Node, size int) ([]*node.Node, []*node.Node) {
	if len(nodes) <= size {
		return nodes, nil
	}
	return nodes[:size], nodes[size:]
}
