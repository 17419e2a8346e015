package cmd

import (
	"fmt"

	"github.com/itsmostafa/tanaline/internal/outline"
	"github.com/itsmostafa/tanaline/internal/slides"
	"github.com/itsmostafa/tanaline/internal/ui"
	"github.com/spf13/cobra"
)

var slidesTarget string
var slidesImages string
var slidesMinZoom float64

var slidesCmd = &cobra.Command{
	Use:   "slides <deck.yaml>",
	Short: "Upload a slide deck, one node per slide",
	Long: `Upload the slides of an extracted deck. Each slide becomes a node tagged
as a slide, holding the page image and the slide text as an outline.

Without --target a "Slides (<name>)" node is created in the inbox. The target
may be a node id or a node URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		client, err := e.client()
		if err != nil {
			return err
		}

		deck, err := slides.LoadDeck(args[0])
		if err != nil {
			return err
		}
		if slidesImages != "" {
			deck.Images = slidesImages
		}
		ids := e.cfg.IDs

		builder := outline.NewBuilder(
			outline.WithFieldResolver(e.resolver(client)),
			outline.WithTableMarker(ids.TableTag),
			outline.WithTableTag(ids.TableTag),
			outline.WithLogger(e.logs.GetLogger("outline")),
		)
		out := cmd.OutOrStdout()
		uploader := slides.NewUploader(client, slides.ImageDir{Dir: deck.Images},
			slides.IDs{SlideTag: ids.SlideTag, ImageField: ids.ImageField, MarkdownField: ids.MarkdownField},
			slides.WithBuilder(builder),
			slides.WithMinZoom(slidesMinZoom),
			slides.WithProgress(out),
			slides.WithLogger(e.logs.GetLogger("slides")),
		)

		collected := deck.Collect(ids.TableTag)
		ui.FormatHeader(out, "Slides",
			ui.Field{Label: "Deck", Value: deck.Name},
			ui.Field{Label: "Images", Value: deck.Images},
		)

		target, err := uploader.ResolveTarget(cmd.Context(), slidesTarget, deck.Name)
		if err != nil {
			return err
		}
		n, err := uploader.Upload(cmd.Context(), target, collected)
		if err != nil {
			return err
		}
		ui.FormatDone(out, fmt.Sprintf("Uploaded %d of %d slides", n, len(collected)))
		ui.FormatSubmitted(out, deck.Name, target)
		return nil
	},
}

func init() {
	slidesCmd.Flags().StringVarP(&slidesTarget, "target", "t", "", "Node id or node URL to add slides under")
	slidesCmd.Flags().StringVar(&slidesImages, "images", "", "Directory of page images (overrides the deck file)")
	slidesCmd.Flags().Float64Var(&slidesMinZoom, "min-zoom", slides.DefaultMinZoom, "Smallest zoom tried before giving up on an image")

	rootCmd.AddCommand(slidesCmd)
}
