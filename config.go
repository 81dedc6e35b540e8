package docharvest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/docharvest/tables"
)

// Config holds file-based extraction configuration. Boolean fields are
// pointers so an absent key keeps the built-in default instead of
// forcing false.
type Config struct {
	ExtractText     *bool `yaml:"extract_text"`
	ExtractTables   *bool `yaml:"extract_tables"`
	ExtractImages   *bool `yaml:"extract_images"`
	ExtractMetadata *bool `yaml:"extract_metadata"`

	Methods []string `yaml:"methods"` // empty means all

	OCR         bool   `yaml:"ocr"`
	OCRLanguage string `yaml:"ocr_language"`

	OutputDir     string `yaml:"output_dir"`
	SaveAsJSON    bool   `yaml:"save_as_json"`
	SaveAsCSV     bool   `yaml:"save_as_csv"`
	CreateSummary bool   `yaml:"create_summary"`

	Workers int `yaml:"workers"`

	Tables TablesConfig `yaml:"tables"`
}

// TablesConfig tunes the table detectors.
type TablesConfig struct {
	MinRows            int     `yaml:"min_rows"`
	MinCols            int     `yaml:"min_cols"`
	MinConfidence      float64 `yaml:"min_confidence"`
	AlignmentTolerance float64 `yaml:"alignment_tolerance"`
	MaxClusterGap      float64 `yaml:"max_cluster_gap"`
	MinLineLength      float64 `yaml:"min_line_length"`
	OverlapThreshold   float64 `yaml:"overlap_threshold"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	for _, m := range c.Methods {
		switch m {
		case tables.MethodLattice, tables.MethodStream, tables.MethodTextual:
		default:
			return fmt.Errorf("unknown table detection method %q", m)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.Tables.OverlapThreshold < 0 || c.Tables.OverlapThreshold > 1 {
		return fmt.Errorf("overlap_threshold must be within [0, 1]")
	}
	return nil
}

// WithConfig applies a loaded Config on top of the extractor's current
// options. Zero values in the config leave the corresponding option
// untouched.
func (e *Extractor) WithConfig(cfg *Config) *Extractor {
	newExt := e.clone()
	o := &newExt.options

	if cfg.ExtractText != nil {
		o.extractText = *cfg.ExtractText
	}
	if cfg.ExtractTables != nil {
		o.extractTables = *cfg.ExtractTables
	}
	if cfg.ExtractImages != nil {
		o.extractImages = *cfg.ExtractImages
	}
	if cfg.ExtractMetadata != nil {
		o.extractMetadata = *cfg.ExtractMetadata
	}

	if len(cfg.Methods) > 0 {
		newExt = newExt.Methods(cfg.Methods...)
		o = &newExt.options
	}

	if cfg.OCR {
		o.ocrImages = true
		o.ocrLanguage = cfg.OCRLanguage
	}

	if cfg.OutputDir != "" {
		o.outputDir = cfg.OutputDir
	}
	if cfg.SaveAsJSON {
		o.saveJSON = true
	}
	if cfg.SaveAsCSV {
		o.saveCSV = true
	}
	if cfg.CreateSummary {
		o.saveSummary = true
	}

	if cfg.Workers > 0 {
		o.workers = cfg.Workers
	}

	t := cfg.Tables
	if t.MinRows > 0 {
		o.tableConfig.MinRows = t.MinRows
	}
	if t.MinCols > 0 {
		o.tableConfig.MinCols = t.MinCols
	}
	if t.MinConfidence > 0 {
		o.tableConfig.MinConfidence = t.MinConfidence
	}
	if t.AlignmentTolerance > 0 {
		o.tableConfig.AlignmentTolerance = t.AlignmentTolerance
	}
	if t.MaxClusterGap > 0 {
		o.tableConfig.MaxClusterGap = t.MaxClusterGap
	}
	if t.MinLineLength > 0 {
		o.tableConfig.MinLineLength = t.MinLineLength
	}
	if t.OverlapThreshold > 0 {
		o.tableConfig.OverlapThreshold = t.OverlapThreshold
	}

	return newExt
}
