package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"casestat/internal/chart"
	apperrors "casestat/internal/errors"
	"casestat/internal/translation"
)

// EnvPrefix namespaces every environment variable, e.g. CASESTAT_ER_RANK.
const EnvPrefix = "CASESTAT"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	ER        ERConfig        `yaml:"er" envconfig:"ER"`
	Cases     CasesConfig     `yaml:"cases" envconfig:"CASES"`
	Chart     ChartConfig     `yaml:"chart" envconfig:"CHART"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// InputConfig controls source location
type InputConfig struct {
	// Marker picks input files from a directory: a table extension ("csv") or a name substring.
	Marker string `yaml:"marker" envconfig:"MARKER" validate:"required"`
}

// OutputConfig controls where reports are written
type OutputConfig struct {
	// Dir is the base for relative output paths. Empty means the working directory.
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// ERConfig contains the ER ranking settings
type ERConfig struct {
	Rank           int    `yaml:"rank" envconfig:"RANK" validate:"min=1"`
	BucketStyle    string `yaml:"bucket_style" envconfig:"BUCKET_STYLE" validate:"oneof=above greater_than"`
	OpenFloor      int    `yaml:"open_floor" envconfig:"OPEN_FLOOR" validate:"min=1"`
	VerifyTotalRow bool   `yaml:"verify_total_row" envconfig:"VERIFY_TOTAL_ROW"`
}

// CasesConfig contains the disease-case summary settings
type CasesConfig struct {
	// DateLayout is an extra Go time layout tried before the built-in ones.
	DateLayout string `yaml:"date_layout" envconfig:"DATE_LAYOUT"`
}

// ChartConfig contains chart rendering configuration
type ChartConfig struct {
	Enabled    bool    `yaml:"enabled" envconfig:"ENABLED"`
	FontFamily string  `yaml:"font_family" envconfig:"FONT_FAMILY" validate:"required"`
	FontSize   float64 `yaml:"font_size" envconfig:"FONT_SIZE" validate:"gt=0"`
	Width      uint    `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height     uint    `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
	Sheet      string  `yaml:"sheet" envconfig:"SHEET" validate:"required,max=31"`
}

// TelemetryConfig contains tracing and metrics output configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	// TraceFile receives finished spans as JSON lines. Empty disables tracing.
	TraceFile string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	// MetricsFile receives the metrics in Prometheus text format at shutdown.
	// Empty disables the file.
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration
func Default() *Config {
	display := chart.DefaultConfig()
	naming := translation.DefaultBucketNaming()
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/casestat.log",
		},
		Input: InputConfig{
			Marker: "csv",
		},
		ER: ERConfig{
			Rank:           10,
			BucketStyle:    string(naming.Style),
			OpenFloor:      naming.OpenFloor,
			VerifyTotalRow: true,
		},
		Chart: ChartConfig{
			Enabled:    true,
			FontFamily: display.FontFamily,
			FontSize:   display.FontSize,
			Width:      display.Width,
			Height:     display.Height,
			Sheet:      display.Sheet,
		},
		Telemetry: TelemetryConfig{
			ServiceName: "casestat",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file, then CASESTAT_*
// environment variables. An empty path searches the usual locations and is not
// an error when none exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		file = getConfigFilePath()
	}
	if file != "" {
		if err := loadFromFile(file, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err).
			WithContext("prefix", EnvPrefix)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file at filePath onto cfg; keys absent from
// the file keep their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return apperrors.NewConfigError("failed to read config file", err).
			WithContext("path", filePath)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return apperrors.NewConfigError("failed to parse config file", err).
			WithContext("path", filePath)
	}
	return nil
}

var validate = validator.New()

// Validate checks every section against its validate tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
		}
		return apperrors.NewConfigError("config validation failed", err).
			WithContext("fields", strings.Join(fields, ", "))
	}
	return nil
}

// BucketNaming returns the age-bucket naming shared by normalization and filtering.
func (c *Config) BucketNaming() translation.BucketNaming {
	return translation.BucketNaming{
		Style:     translation.BucketStyle(c.ER.BucketStyle),
		OpenFloor: c.ER.OpenFloor,
	}
}

// Display returns the chart display configuration.
func (c ChartConfig) Display() chart.Config {
	return chart.Config{
		FontFamily: c.FontFamily,
		FontSize:   c.FontSize,
		Width:      c.Width,
		Height:     c.Height,
		Sheet:      c.Sheet,
	}
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"casestat.yaml",
		"configs/casestat.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}
