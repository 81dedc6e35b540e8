package docharvest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/docharvest/export"
	"github.com/tsawler/docharvest/model"
	"github.com/tsawler/docharvest/ocr"
	"github.com/tsawler/docharvest/tables"
)

// pipeline carries the per-run state shared by page workers.
type pipeline struct {
	src     source
	opts    ExtractionOptions
	log     *slog.Logger
	docBase string
	outDir  string // empty when nothing is written to disk

	mu       sync.Mutex
	warnings []Warning

	ocrOnce sync.Once // OCR unavailability is reported once per run
}

func (p *pipeline) warn(code string, page int, format string, args ...any) {
	w := Warning{Code: code, Page: page, Message: fmt.Sprintf(format, args...)}
	p.mu.Lock()
	p.warnings = append(p.warnings, w)
	p.mu.Unlock()
	p.log.Warn("extraction warning", "code", w.Code, "page", w.Page, "message", w.Message)
}

// run executes the whole pipeline over an opened source: dispatch page
// workers, collect pages into index-stable slots, aggregate and export.
func (e *Extractor) run(ctx context.Context) (*model.Document, []Warning, error) {
	logger := e.options.logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &pipeline{
		src:     e.src,
		opts:    e.options,
		log:     logger,
		docBase: baseName(e.src.Path()),
	}

	if p.needsOutputDir() {
		dir, err := p.resolveOutputDir()
		if err != nil {
			return nil, nil, err
		}
		p.outDir = dir
	}

	pageCount := e.src.PageCount()
	doc := model.NewDocument(e.src.Path(), pageCount)
	doc.OutputDir = p.outDir
	if e.options.extractMetadata {
		doc.Metadata = e.src.Metadata()
	}

	logger.Debug("processing document",
		"source", e.src.Path(),
		"pages", pageCount,
		"workers", e.options.workers,
		"methods", e.options.methods())

	slots := make([]*model.Page, pageCount)

	// A single page (or a single worker) is processed inline; the pool
	// buys nothing there.
	if pageCount <= 1 || e.options.workers <= 1 {
		for i := range slots {
			if err := ctx.Err(); err != nil {
				return nil, p.warnings, err
			}
			slots[i] = p.processPage(ctx, i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.options.workers)
		for i := range slots {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i] = p.processPage(gctx, i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, p.warnings, err
		}
	}

	doc.Pages = slots

	if err := p.export(doc); err != nil {
		return nil, p.warnings, err
	}

	summary := doc.Summarize()
	logger.Info("document processed",
		"source", doc.Source,
		"pages", summary.Pages,
		"failed_pages", summary.FailedPages,
		"tables", summary.Tables,
		"images", summary.Images)

	return doc, p.warnings, nil
}

// processPage extracts a single page. It never fails the run: any error is
// recorded on the page slot and as a warning.
func (p *pipeline) processPage(ctx context.Context, pageIndex int) *model.Page {
	page := model.NewPage(pageIndex)

	content, err := p.src.PageContent(pageIndex)
	if err != nil {
		page.Status = model.StatusFailed
		page.Error = err.Error()
		p.warn(WarnPageFailed, pageIndex, "%v", err)
		return page
	}

	page.Width = content.Width
	page.Height = content.Height
	page.Rotation = content.Rotation

	partial := false

	if p.opts.extractText {
		page.SetText(content.Text)
	}

	if p.opts.extractTables {
		page.Tables = p.detectTables(content, pageIndex)
	}

	if p.opts.extractImages {
		refs, ok := p.extractImages(ctx, pageIndex)
		page.Images = refs
		if !ok {
			partial = true
		}
	}

	if partial {
		page.Status = model.StatusPartial
	}
	p.log.Debug("page processed",
		"page", pageIndex,
		"status", page.Status.String(),
		"words", page.WordCount,
		"tables", len(page.Tables),
		"images", len(page.Images))
	return page
}

// detectTables runs every enabled detection method over the page content
// and reconciles overlapping results. A failing method is skipped with a
// warning; the remaining methods still contribute.
func (p *pipeline) detectTables(content *model.PageContent, pageIndex int) []*model.Table {
	var detected []*model.Table
	for _, name := range p.opts.methods() {
		detector := tables.NewDetector(name)
		if detector == nil {
			continue
		}
		if err := detector.Configure(p.opts.tableConfig); err != nil {
			p.warn(WarnTableMethod, pageIndex, "%s: %v", name, err)
			continue
		}
		found, err := detector.Detect(content)
		if err != nil {
			p.warn(WarnTableMethod, pageIndex, "%s: %v", name, err)
			continue
		}
		for _, t := range found {
			t.PageIndex = pageIndex
		}
		detected = append(detected, found...)
	}

	return tables.Reconcile(detected, p.opts.tableConfig.OverlapThreshold)
}

// extractImages pulls the page's images, persists them under the output
// directory and optionally OCRs them. The second return value is false
// when image extraction failed outright.
func (p *pipeline) extractImages(ctx context.Context, pageIndex int) ([]model.ImageRef, bool) {
	images, err := p.src.PageImages(pageIndex)
	if err != nil {
		p.warn(WarnImageSkipped, pageIndex, "image extraction failed: %v", err)
		return nil, false
	}
	if len(images) == 0 {
		return nil, true
	}

	var engine *ocr.Engine
	if p.opts.ocrImages {
		engine, err = ocr.NewEngine(p.opts.ocrLanguage)
		if err != nil {
			engine = nil
			p.ocrOnce.Do(func() {
				p.warn(WarnOCR, -1, "%v", err)
			})
		} else {
			defer engine.Close()
		}
	}

	var refs []model.ImageRef
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return refs, true
		}

		ref := model.ImageRef{
			PageIndex: pageIndex,
			Index:     img.Index,
			Format:    img.Format,
			Width:     img.Width,
			Height:    img.Height,
			Size:      int64(len(img.Data)),
		}

		if p.outDir != "" {
			name := export.ImageName(p.docBase, pageIndex, img.Index, img.Format)
			path := filepath.Join(p.outDir, name)
			if err := os.WriteFile(path, img.Data, 0o644); err != nil {
				p.warn(WarnImageWrite, pageIndex, "image %d: %v", img.Index, err)
				continue
			}
			ref.Path = path
		}

		if engine != nil {
			text, err := engine.Recognize(img.Data)
			if err != nil {
				p.warn(WarnOCR, pageIndex, "image %d: %v", img.Index, err)
			} else {
				ref.Text = text
			}
		}

		refs = append(refs, ref)
	}

	return refs, true
}

// export writes the configured artifacts. Export failures are fatal: the
// caller asked for files that could not be produced.
func (p *pipeline) export(doc *model.Document) error {
	if p.outDir == "" {
		return nil
	}

	if p.opts.saveJSON {
		path, err := export.WriteJSON(doc, p.outDir)
		if err != nil {
			return fmt.Errorf("failed to write JSON: %w", err)
		}
		p.log.Debug("wrote JSON dump", "path", path)
	}

	if p.opts.saveCSV {
		paths, err := export.WriteTablesCSV(doc, p.outDir)
		if err != nil {
			return fmt.Errorf("failed to write CSV tables: %w", err)
		}
		p.log.Debug("wrote CSV tables", "count", len(paths))
	}

	if p.opts.saveSummary {
		path, err := export.WriteSummary(doc, p.outDir)
		if err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		p.log.Debug("wrote summary report", "path", path)
	}

	return nil
}

// needsOutputDir reports whether the run writes any artifact to disk.
func (p *pipeline) needsOutputDir() bool {
	return p.opts.extractImages || p.opts.saveJSON || p.opts.saveCSV || p.opts.saveSummary
}

// resolveOutputDir creates and returns the run's output directory. An
// explicit OutputDir is used as-is; otherwise a directory named after the
// source file with a short run id is created next to it.
func (p *pipeline) resolveOutputDir() (string, error) {
	dir := p.opts.outputDir
	if dir == "" {
		runID := strings.Split(uuid.NewString(), "-")[0]
		dir = filepath.Join(filepath.Dir(p.src.Path()), fmt.Sprintf("%s_extracted_%s", p.docBase, runID))
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// baseName returns the file name without directory or extension.
func baseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
