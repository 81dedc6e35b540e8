package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsawler/docharvest/model"
)

// ImageName returns the file name for an extracted image. Page and image
// indices are 0-based on the way in and 1-based in the name.
func ImageName(docBase string, pageIndex, imageIndex int, format string) string {
	return fmt.Sprintf("%s_page_%d_img_%d.%s", docBase, pageIndex+1, imageIndex+1, format)
}

// WriteJSON writes the full document as indented JSON into dir and
// returns the file path.
func WriteJSON(doc *model.Document, dir string) (string, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	path := filepath.Join(dir, docBase(doc)+"_results.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// WriteTablesCSV writes every table in the document as its own CSV file
// into dir and returns the file paths, in page order.
func WriteTablesCSV(doc *model.Document, dir string) ([]string, error) {
	base := docBase(doc)

	var paths []string
	for _, page := range doc.Pages {
		if page == nil {
			continue
		}
		for _, table := range page.Tables {
			name := fmt.Sprintf("%s_page_%d_table_%d_%s.csv",
				base, page.Index+1, table.Index+1, table.Method)
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(table.ToCSV()), 0o644); err != nil {
				return paths, fmt.Errorf("table %d on page %d: %w", table.Index+1, page.Index+1, err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// WriteSummary writes a human-readable report of the extraction into dir
// and returns the file path.
func WriteSummary(doc *model.Document, dir string) (string, error) {
	path := filepath.Join(dir, docBase(doc)+"_summary.txt")
	if err := os.WriteFile(path, []byte(Summary(doc)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// Summary renders the report text for a document.
func Summary(doc *model.Document) string {
	s := doc.Summarize()

	var sb strings.Builder
	sb.WriteString("Extraction Summary\n")
	sb.WriteString("==================\n\n")
	fmt.Fprintf(&sb, "Source:     %s\n", doc.Source)
	fmt.Fprintf(&sb, "Pages:      %d", s.Pages)
	if s.FailedPages > 0 {
		fmt.Fprintf(&sb, " (%d failed)", s.FailedPages)
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Words:      %d\n", s.Words)
	fmt.Fprintf(&sb, "Characters: %d\n", s.Characters)
	fmt.Fprintf(&sb, "Tables:     %d\n", s.Tables)
	fmt.Fprintf(&sb, "Images:     %d\n", s.Images)

	if len(doc.Metadata) > 0 {
		sb.WriteString("\nMetadata\n--------\n")
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&sb, "%-12s%s\n", k+":", doc.Metadata[k])
		}
	}

	sb.WriteString("\nPages\n-----\n")
	for _, page := range doc.Pages {
		if page == nil {
			continue
		}
		fmt.Fprintf(&sb, "page %d: status=%s words=%d tables=%d images=%d",
			page.Index+1, page.Status, page.WordCount, len(page.Tables), len(page.Images))
		if page.Error != "" {
			fmt.Fprintf(&sb, " error=%q", page.Error)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func docBase(doc *model.Document) string {
	base := filepath.Base(doc.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
