package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/itsmostafa/tanaline/internal/config"
	"github.com/itsmostafa/tanaline/internal/fields"
	"github.com/itsmostafa/tanaline/internal/logging"
	"github.com/itsmostafa/tanaline/internal/node"
	"github.com/itsmostafa/tanaline/internal/tana"
	"github.com/itsmostafa/tanaline/internal/ui"
	"github.com/itsmostafa/tanaline/internal/version"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var configFile string
var logLevel string
var logFormat string
var colorMode string

var rootCmd = &cobra.Command{
	Use:   "tanaline",
	Short: "Turn outlines, slide decks and meeting notes into Tana nodes",
	Long: `tanaline rebuilds node trees from indentation based text (slide outlines,
meeting notes, transcripts) and either posts them to the Tana input API or
prints them as Tana paste markup.

The API token is read from TanaKey or TANA_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("tanaline %s\n", version.String()))

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json, pretty)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize markup output (auto, always, never)")
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		ui.FormatError(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every command needs after flags are parsed.
type env struct {
	cfg  config.Config
	logs *logging.Provider
}

func setup() (*env, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	logs, err := logging.NewProvider(cfg.Logging)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, logs: logs}, nil
}

func (e *env) client() (*tana.Client, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	return tana.NewClient(e.cfg.API.Token,
		tana.WithEndpoint(e.cfg.API.Endpoint),
		tana.WithLimiter(tana.NewLimiter(e.cfg.API.Interval)),
		tana.WithRetryDelay(e.cfg.API.RetryDelay),
		tana.WithDumpDir(e.cfg.API.DumpDir),
		tana.WithEncodeOptions(node.WithURLAttribute(e.cfg.IDs.URLField)),
		tana.WithLogger(e.logs.GetLogger("tana")),
	)
}

// resolver returns a field resolver over the configured store. A nil
// submitter turns minting off.
func (e *env) resolver(sub fields.Submitter) *fields.Resolver {
	opts := []fields.Option{
		fields.WithNames(e.cfg.Names()),
		fields.WithLogger(e.logs.GetLogger("fields")),
	}
	if sub != nil {
		opts = append(opts, fields.WithMinting(sub, e.cfg.IDs.TableFieldsNode, e.cfg.IDs.FieldTag))
	}
	return fields.NewResolver(fields.NewFileStore(e.cfg.FieldsStore), opts...)
}

func markupColors(w io.Writer) *node.Colors {
	switch colorMode {
	case "always":
		return node.NewColors()
	case "never":
		return nil
	}
	f, ok := w.(*os.File)
	if !ok {
		return nil
	}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return node.NewColors()
	}
	return nil
}

// readInput reads the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
