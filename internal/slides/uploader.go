package slides

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/outline"
	"github.com/itsmostafa/tanaline/internal/tana"
	"github.com/itsmostafa/tanaline/internal/ui"
)

// DefaultMinZoom is the smallest zoom tried before giving up on an image.
const DefaultMinZoom = 0.01

// ErrImageTooLarge means a slide image stayed over the upload limit at the
// minimum zoom.
var ErrImageTooLarge = errors.New("could not zoom out enough to make the image uploadable")

// Uploader submits slides one by one under a target node.
type Uploader struct {
	submitter tana.Submitter
	raster    Rasterizer
	builder   *outline.Builder
	ids       IDs
	minZoom   float64
	out       io.Writer
	logger    logging.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithBuilder sets the outline builder for slide text. The default builder
// leaves "Name::" entries as plain text.
func WithBuilder(b *outline.Builder) UploaderOption {
	return func(u *Uploader) { u.builder = b }
}

// WithMinZoom overrides DefaultMinZoom.
func WithMinZoom(z float64) UploaderOption {
	return func(u *Uploader) { u.minZoom = z }
}

// WithProgress writes per-slide progress to w.
func WithProgress(w io.Writer) UploaderOption {
	return func(u *Uploader) { u.out = w }
}

// WithLogger sets the uploader logger.
func WithLogger(l logging.Logger) UploaderOption {
	return func(u *Uploader) { u.logger = l }
}

// NewUploader returns an uploader posting through s with images from r.
func NewUploader(s tana.Submitter, r Rasterizer, ids IDs, opts ...UploaderOption) *Uploader {
	u := &Uploader{submitter: s, raster: r, ids: ids, minZoom: DefaultMinZoom, out: io.Discard}
	for _, opt := range opts {
		opt(u)
	}
	if u.builder == nil {
		u.builder = outline.NewBuilder()
	}
	u.logger = logging.OrNoOp(u.logger)
	return u
}

// ResolveTarget returns the node id slides go under. An empty target creates
// a "Slides (deckName)" node in the inbox; a node URL is reduced to its id.
func (u *Uploader) ResolveTarget(ctx context.Context, target, deckName string) (string, error) {
	switch {
	case target == "":
		created, err := tana.NewBatch(u.submitter, node.NewPlain(fmt.Sprintf("Slides (%s)", deckName))).
			TargetInbox().
			Submit(ctx, false)
		if err != nil {
			return "", fmt.Errorf("failed to create slides node: %w", err)
		}
		if len(created.Children) == 0 || created.Children[0].NodeID == "" {
			return "", errors.New("failed to create slides node: response has no node id")
		}
		id := created.Children[0].NodeID
		ui.FormatSubmitted(u.out, fmt.Sprintf("Slides (%s)", deckName), id)
		return id, nil
	case strings.HasPrefix(target, "http"):
		_, id, ok := strings.Cut(target, "=")
		if !ok || id == "" {
			return "", fmt.Errorf("no node id in %q", target)
		}
		return id, nil
	default:
		return target, nil
	}
}

// Upload submits every slide under targetID in order and stops at the first
// failure. It returns the number of slides submitted.
func (u *Uploader) Upload(ctx context.Context, targetID string, slides []Slide) (int, error) {
	for i, s := range slides {
		ui.FormatSlideProgress(u.out, i+1, len(slides), s.Title)
		if err := u.UploadSlide(ctx, targetID, s); err != nil {
			return i, fmt.Errorf("slide %d: %w", i+1, err)
		}
	}
	return len(slides), nil
}

// UploadSlide submits one slide. When the image is over the upload limit it
// is rasterized again at a smaller zoom until it fits.
func (u *Uploader) UploadSlide(ctx context.Context, targetID string, s Slide) error {
	content, err := u.builder.Build(ctx, s.Entries)
	if err != nil {
		return err
	}

	zoom := 1.0
	for zoom >= u.minZoom {
		image, err := u.raster.Rasterize(ctx, s.Image, zoom)
		if err != nil {
			return err
		}

		slide := NewSlideNode(u.ids, s.Title, content, s.Image, image)
		_, err = tana.NewBatch(u.submitter, slide).SetTarget(targetID).Submit(ctx, true)
		if err == nil {
			if zoom < 1 {
				ui.FormatStep(u.out, "%s fits at zoom %.2f", s.Image, zoom)
			}
			return nil
		}

		var lfe *node.LargeFileError
		if !errors.As(err, &lfe) {
			return err
		}
		scale := lfe.Scale()
		if scale >= 1 {
			scale = 0.9
		}
		zoom *= scale
		u.logger.Debug("slide image too large", "image", s.Image, "encoded", lfe.EncodedSize, "zoom", zoom)
		ui.FormatRescale(u.out, zoom, lfe.EncodedSize, lfe.MaxSize)
	}
	return fmt.Errorf("%s: %w", s.Image, ErrImageTooLarge)
}
