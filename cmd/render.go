package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/itsmostafa/tanaline/internal/fields"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/outline"
	"github.com/itsmostafa/tanaline/internal/slides"
	"github.com/spf13/cobra"
)

var renderSentinel bool

var renderCmd = &cobra.Command{
	Use:   "render <deck.yaml>",
	Short: "Print a slide deck as paste markup without uploading",
	Long: `Print the nodes a deck would be uploaded as, in Tana paste markup. Fields
missing from the field store are shown under their own name instead of being
created.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		deck, err := slides.LoadDeck(args[0])
		if err != nil {
			return err
		}

		ids := e.cfg.IDs
		names := node.Names(e.cfg.Names())
		builder := outline.NewBuilder(
			outline.WithFieldResolver(e.previewResolver(names)),
			outline.WithTableMarker(ids.TableTag),
			outline.WithTableTag(ids.TableTag),
			outline.WithLogger(e.logs.GetLogger("outline")),
		)

		slideIDs := slides.IDs{SlideTag: ids.SlideTag, ImageField: ids.ImageField, MarkdownField: ids.MarkdownField}
		var roots []*node.Node
		for _, s := range deck.Collect(ids.TableTag) {
			content, err := builder.Build(cmd.Context(), s.Entries)
			if err != nil {
				return err
			}
			roots = append(roots, slides.NewSlideNode(slideIDs, s.Title, content, s.Image, nil))
		}

		out := cmd.OutOrStdout()
		markup, err := node.RenderAll(roots, names,
			node.WithSentinel(renderSentinel),
			node.WithColors(markupColors(out)),
		)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, markup)
		return nil
	},
}

// previewResolver resolves fields from the store without creating any.
// Unknown fields get their own name as id. Every resolved field is added to
// names.
func (e *env) previewResolver(names node.Names) outline.FieldResolver {
	resolver := e.resolver(nil)
	return outline.FieldResolverFunc(func(ctx context.Context, name string) (string, error) {
		id, err := resolver.ResolveField(ctx, name)
		if errors.Is(err, fields.ErrUnknownField) {
			id, err = fields.Normalize(name), nil
		}
		if err != nil {
			return "", err
		}
		names[id] = name
		return id, nil
	})
}

func init() {
	renderCmd.Flags().BoolVar(&renderSentinel, "sentinel", true, "Start the markup with the %%tana%% paste marker")

	rootCmd.AddCommand(renderCmd)
}
