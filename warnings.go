package docharvest

import (
	"fmt"
	"strings"
)

// Warning codes reported during extraction.
const (
	WarnTableMethod  = "table-method-failed"
	WarnImageSkipped = "image-skipped"
	WarnImageWrite   = "image-write-failed"
	WarnOCR          = "ocr-unavailable"
	WarnPageFailed   = "page-failed"
)

// Warning describes a non-fatal issue encountered while processing a
// document. Warnings accompany results; they never abort a run.
type Warning struct {
	Code    string // one of the Warn* constants
	Page    int    // 0-based page index, -1 if not page-specific
	Message string
}

func (w Warning) String() string {
	if w.Page >= 0 {
		return fmt.Sprintf("[%s] page %d: %s", w.Code, w.Page+1, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "\n")
}
