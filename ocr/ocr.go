//go:build ocr

// Package ocr recognizes text in images extracted from PDF pages, so that
// scanned documents still yield searchable text.
//
// The package wraps the Tesseract engine via gosseract and is gated behind
// the "ocr" build tag because it needs Tesseract installed on the system.
// On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag a stub is compiled in and NewEngine returns ErrNotEnabled,
// which callers treat as "no OCR text available".
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in raster images. It is not safe for concurrent
// use; each page worker should hold its own Engine.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates an OCR engine for the given language. Multiple
// languages can be combined with "+" (e.g. "eng+deu"); an empty string
// means English. Close the engine when done.
func NewEngine(lang string) (*Engine, error) {
	client := gosseract.NewClient()
	if lang == "" {
		lang = "eng"
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language %q: %w", lang, err)
	}
	return &Engine{client: client}, nil
}

// Close releases the underlying Tesseract resources.
func (e *Engine) Close() error {
	if e == nil || e.client == nil {
		return nil
	}
	return e.client.Close()
}

// Recognize performs OCR on encoded image data (PNG, TIFF or JPEG) and
// returns the recognized text with surrounding whitespace trimmed.
func (e *Engine) Recognize(imageData []byte) (string, error) {
	if err := e.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
