package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itsmostafa/tanaline/internal/config"
	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/meeting"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/tana"
	"github.com/itsmostafa/tanaline/internal/ui"
	"github.com/spf13/cobra"
)

var notesSentinel bool
var jsonResult bool

var notesCmd = &cobra.Command{
	Use:   "notes <event-file|->",
	Short: "Convert a Fellow meeting note webhook body to paste markup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		body, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		ids := meetingIDs(e.cfg)
		if jsonResult {
			res, err := meeting.FellowNotes(string(body), ids)
			if err != nil {
				return err
			}
			return printResult(cmd, res)
		}

		ev, err := meeting.ParseFellowEvent(string(body))
		if err != nil {
			return err
		}
		root, err := ev.Tree(ids)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		markup, err := node.Render(root, ids.Names(),
			node.WithSentinel(notesSentinel),
			node.WithColors(markupColors(out)),
		)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, markup)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <event.json|->",
	Short: "Send a Sembly meeting summary to the inbox",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmitPipeline(cmd, args[0], meeting.Summary)
	},
}

var transcriptCmd = &cobra.Command{
	Use:   "transcript <event.json|->",
	Short: "Send a Sembly meeting transcript to the inbox",
	Long: fmt.Sprintf(`Send a Sembly meeting transcript to the inbox. Transcripts are sent %d
speaker blocks at a time.`, meeting.TranscriptBatchSize),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSubmitPipeline(cmd, args[0], meeting.Transcript)
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals <export|->",
	Short: "Sum the Total fields of a purchase order export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		res, err := meeting.Totals(string(body))
		if err != nil {
			return err
		}
		if jsonResult {
			return printResult(cmd, res)
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Body)
		return nil
	},
}

type submitPipeline func(ctx context.Context, sub tana.Submitter, body []byte, ids meeting.IDs, logger logging.Logger) (meeting.Result, error)

func runSubmitPipeline(cmd *cobra.Command, input string, run submitPipeline) error {
	e, err := setup()
	if err != nil {
		return err
	}
	client, err := e.client()
	if err != nil {
		return err
	}
	body, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	res, err := run(cmd.Context(), client, body, meetingIDs(e.cfg), e.logs.GetLogger("meeting"))
	if err != nil {
		return err
	}
	if jsonResult {
		return printResult(cmd, res)
	}
	ui.FormatDone(cmd.OutOrStdout(), fmt.Sprint(res.Body))
	return nil
}

func meetingIDs(cfg config.Config) meeting.IDs {
	return meeting.IDs{
		MeetingTag:      cfg.IDs.MeetingTag,
		SummaryField:    cfg.IDs.SummaryField,
		DateField:       cfg.IDs.DateField,
		TranscriptField: cfg.IDs.TranscriptField,
	}
}

func printResult(cmd *cobra.Command, res meeting.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func init() {
	notesCmd.Flags().BoolVar(&notesSentinel, "sentinel", false, "Start the markup with the %%tana%% paste marker")

	for _, c := range []*cobra.Command{notesCmd, summaryCmd, transcriptCmd, totalsCmd} {
		c.Flags().BoolVar(&jsonResult, "json", false, `Print the {"statusCode", "body"} result as JSON`)
		rootCmd.AddCommand(c)
	}
}
