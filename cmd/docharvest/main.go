// Command docharvest extracts text, tables, images and metadata from PDF
// files on the command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/docharvest"
)

var flags struct {
	configPath string
	outputDir  string
	workers    int
	methods    []string

	noText     bool
	noTables   bool
	noImages   bool
	noMetadata bool

	ocr     bool
	ocrLang string

	saveJSON bool
	saveCSV  bool
	summary  bool

	verbose bool
}

func main() {
	root := &cobra.Command{
		Use:   "docharvest [flags] file.pdf...",
		Short: "Extract text, tables, images and metadata from PDF files",
		Long: `docharvest processes PDF files page by page, extracting raw text,
tables (detected by ruling lines, whitespace alignment and text heuristics),
embedded images and document metadata. Results can be dumped as JSON, CSV
and a summary report.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	root.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML config file")
	root.Flags().StringVarP(&flags.outputDir, "output", "o", "", "output directory (default: <file>_extracted_<id> next to the source)")
	root.Flags().IntVarP(&flags.workers, "workers", "w", docharvest.DefaultWorkers, "number of pages processed concurrently")
	root.Flags().StringSliceVarP(&flags.methods, "methods", "m", nil, "table detection methods (lattice, stream, textual; default: all)")

	root.Flags().BoolVar(&flags.noText, "no-text", false, "skip text extraction")
	root.Flags().BoolVar(&flags.noTables, "no-tables", false, "skip table detection")
	root.Flags().BoolVar(&flags.noImages, "no-images", false, "skip image extraction")
	root.Flags().BoolVar(&flags.noMetadata, "no-metadata", false, "skip metadata extraction")

	root.Flags().BoolVar(&flags.ocr, "ocr", false, "OCR extracted images (requires a build with the ocr tag)")
	root.Flags().StringVar(&flags.ocrLang, "ocr-lang", "eng", "OCR language(s), e.g. eng or eng+deu")

	root.Flags().BoolVar(&flags.saveJSON, "json", false, "write the full result as JSON")
	root.Flags().BoolVar(&flags.saveCSV, "csv", false, "write each table as a CSV file")
	root.Flags().BoolVar(&flags.summary, "summary", false, "write a summary report")

	root.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var cfg *docharvest.Config
	if flags.configPath != "" {
		var err error
		cfg, err = docharvest.LoadConfig(flags.configPath)
		if err != nil {
			return err
		}
	}

	for _, path := range args {
		if err := processFile(cmd, path, cfg, logger); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func processFile(cmd *cobra.Command, path string, cfg *docharvest.Config, logger *slog.Logger) error {
	ext := docharvest.Open(path).Logger(logger).Workers(flags.workers)

	if cfg != nil {
		ext = ext.WithConfig(cfg)
	}

	if flags.outputDir != "" {
		ext = ext.OutputDir(flags.outputDir)
	}
	if len(flags.methods) > 0 {
		ext = ext.Methods(flags.methods...)
	}
	if flags.noText {
		ext = ext.WithoutText()
	}
	if flags.noTables {
		ext = ext.WithoutTables()
	}
	if flags.noImages {
		ext = ext.WithoutImages()
	}
	if flags.noMetadata {
		ext = ext.WithoutMetadata()
	}
	if flags.ocr {
		ext = ext.WithOCR(flags.ocrLang)
	}
	if flags.saveJSON {
		ext = ext.SaveJSON()
	}
	if flags.saveCSV {
		ext = ext.SaveCSV()
	}
	if flags.summary {
		ext = ext.WithSummary()
	}

	doc, warnings, err := ext.Extract(cmd.Context())
	if err != nil {
		return err
	}

	for _, w := range warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	s := doc.Summarize()
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages", path, s.Pages)
	if s.FailedPages > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d failed)", s.FailedPages)
	}
	fmt.Fprintf(cmd.OutOrStdout(), ", %d words, %d tables, %d images",
		s.Words, s.Tables, s.Images)
	if doc.OutputDir != "" {
		fmt.Fprintf(cmd.OutOrStdout(), " -> %s", doc.OutputDir)
	}
	fmt.Fprintln(cmd.OutOrStdout())

	return nil
}
