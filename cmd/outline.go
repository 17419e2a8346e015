package cmd

import (
	"context"
	"fmt"

	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/outline"
	"github.com/itsmostafa/tanaline/internal/tana"
	"github.com/itsmostafa/tanaline/internal/ui"
	"github.com/spf13/cobra"
)

var outlineSubmit bool
var outlineTarget string
var outlineSentinel bool

var outlineCmd = &cobra.Command{
	Use:   "outline <file.md|->",
	Short: "Convert a markdown outline to nodes",
	Long: `Convert markdown headers, lists and paragraphs to a node tree. Lines ending
in "::" become fields. The tree is printed as paste markup, or sent to the
inbox (or --target) with --submit. Front matter may set a title (the
outline is nested under it), tags for that node, and a target.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		data, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		doc, err := outline.ParseMarkdown(data)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ids := e.cfg.IDs

		if !outlineSubmit {
			names := node.Names(e.cfg.Names())
			b := outline.NewBuilder(
				outline.WithFieldResolver(e.previewResolver(names)),
				outline.WithTableMarker(ids.TableTag),
				outline.WithLogger(e.logs.GetLogger("outline")),
			)
			nodes, err := buildDoc(cmd.Context(), b, doc)
			if err != nil {
				return err
			}
			markup, err := node.RenderAll(nodes, names,
				node.WithSentinel(outlineSentinel),
				node.WithColors(markupColors(out)),
			)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, markup)
			return nil
		}

		client, err := e.client()
		if err != nil {
			return err
		}
		b := outline.NewBuilder(
			outline.WithFieldResolver(e.resolver(client)),
			outline.WithTableMarker(ids.TableTag),
			outline.WithLogger(e.logs.GetLogger("outline")),
		)
		nodes, err := buildDoc(cmd.Context(), b, doc)
		if err != nil {
			return err
		}

		batch := tana.NewBatch(client, nodes...).TargetInbox()
		switch {
		case outlineTarget != "":
			batch.SetTarget(outlineTarget)
		case doc.Target != "":
			batch.SetTarget(doc.Target)
		}
		created, err := batch.Submit(cmd.Context(), true)
		if err != nil {
			return err
		}
		for _, c := range created.Children {
			ui.FormatSubmitted(out, c.Name, c.NodeID)
		}
		return nil
	},
}

// buildDoc builds the document's nodes, under a single titled node when the
// front matter names one.
func buildDoc(ctx context.Context, b *outline.Builder, doc outline.MarkdownDoc) ([]*node.Node, error) {
	nodes, err := b.Build(ctx, doc.Entries)
	if err != nil {
		return nil, err
	}
	if doc.Title == "" {
		return nodes, nil
	}
	return []*node.Node{node.NewPlain(doc.Title).AddTags(doc.Tags...).Append(nodes...)}, nil
}

func init() {
	outlineCmd.Flags().BoolVar(&outlineSubmit, "submit", false, "Send the nodes instead of printing them")
	outlineCmd.Flags().StringVarP(&outlineTarget, "target", "t", "", "Node id to add the nodes under (default: inbox)")
	outlineCmd.Flags().BoolVar(&outlineSentinel, "sentinel", true, "Start the markup with the %%tana%% paste marker")

	rootCmd.AddCommand(outlineCmd)
}
