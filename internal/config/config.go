// Package config holds the workspace ids, API settings and logging options
// shared by every command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goccy/go-yaml"

	"github.com/itsmostafa/tanaline/internal/logging"
)

// Environment variables read by Load.
const (
	EnvToken       = "TanaKey"
	EnvTokenAlt    = "TANA_API_KEY"
	EnvEndpoint    = "TANALINE_ENDPOINT"
	EnvFieldsStore = "TANALINE_FIELDS"
)

// IDs are the workspace node ids the pipelines attach to.
type IDs struct {
	SlideTag        string `yaml:"slide_tag"`
	FieldTag        string `yaml:"field_tag"`
	TableTag        string `yaml:"table_tag"`
	TableFieldsNode string `yaml:"table_fields_node"`
	ImageField      string `yaml:"image_field"`
	MarkdownField   string `yaml:"markdown_field"`
	URLField        string `yaml:"url_field"`

	MeetingTag      string `yaml:"meeting_tag"`
	SummaryField    string `yaml:"summary_field"`
	DateField       string `yaml:"date_field"`
	TranscriptField string `yaml:"transcript_field"`
}

// API configures the input API client.
type API struct {
	Token      string        `yaml:"token"`
	Endpoint   string        `yaml:"endpoint"`
	Interval   time.Duration `yaml:"interval"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	DumpDir    string        `yaml:"dump_dir"`
}

// Config is the full tanaline configuration.
type Config struct {
	IDs         IDs            `yaml:"ids"`
	API         API            `yaml:"api"`
	FieldsStore string         `yaml:"fields_store"`
	Logging     logging.Config `yaml:"logging"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		IDs: IDs{
			SlideTag:        "EzfED-izb3-0",
			FieldTag:        "SYS_T02",
			TableTag:        "HyaHwYWkdPXK",
			TableFieldsNode: "2ZW21NkrZcxq",
			ImageField:      "ldlB7rVr3pTc",
			MarkdownField:   "hzZFWlILJ6hd",
			URLField:        "URLFieldId",
			MeetingTag:      "fSSZ0t72ib5W",
			SummaryField:    "rc9RrqE67ogA",
			DateField:       "SYS_A90",
			TranscriptField: "PjRWf5Mcrz_m",
		},
		API: API{
			Endpoint:   "https://europe-west1-tagr-prod.cloudfunctions.net/addToNodeV2",
			Interval:   2 * time.Second,
			RetryDelay: 5 * time.Second,
		},
		FieldsStore: defaultFieldsStore(),
		Logging:     logging.Config{Level: "info", Format: "console"},
	}
}

func defaultFieldsStore() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "tanaline", "fields.yaml")
}

// Load returns Default overlaid with the YAML file at path and then with
// environment overrides. An empty path skips the file; a missing file is an
// error only when path was given explicitly.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvToken); ok && v != "" {
		c.API.Token = v
	} else if v, ok := lookup(EnvTokenAlt); ok && v != "" {
		c.API.Token = v
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.API.Endpoint = v
	}
	if v, ok := lookup(EnvFieldsStore); ok && v != "" {
		c.FieldsStore = v
	}
}

// Validate checks the settings every API-bound command needs.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c.API,
		validation.Field(&c.API.Token, validation.Required.Error(
			fmt.Sprintf("is required (set %s or api.token)", EnvToken))),
		validation.Field(&c.API.Endpoint, validation.Required),
		validation.Field(&c.API.Interval, validation.Min(time.Duration(0))),
		validation.Field(&c.API.RetryDelay, validation.Min(time.Duration(0))),
	)
}

// Names returns display names for the configured tags and fields, used when
// rendering markup.
func (c Config) Names() map[string]string {
	return map[string]string{
		c.IDs.MeetingTag:      "Meeting",
		c.IDs.SummaryField:    "Summary",
		c.IDs.DateField:       "Date",
		c.IDs.TranscriptField: "Transcript",
		c.IDs.SlideTag:        "Slide",
		c.IDs.TableTag:        "Table",
		c.IDs.ImageField:      "Image",
		c.IDs.MarkdownField:   "Markdown",
	}
}
