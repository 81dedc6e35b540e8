//go:build !ocr

// Package ocr recognizes text in images extracted from PDF pages.
//
// This is the stub compiled in when the "ocr" build tag is not set.
// NewEngine returns ErrNotEnabled and callers fall back to skipping
// image text. To enable recognition, install Tesseract and rebuild:
//
//	go build -tags ocr
package ocr

import "errors"

// ErrNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Engine is a stub that fails every operation with ErrNotEnabled.
type Engine struct{}

// NewEngine returns ErrNotEnabled.
func NewEngine(lang string) (*Engine, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op. It is safe to call on a nil engine.
func (e *Engine) Close() error {
	return nil
}

// Recognize returns ErrNotEnabled.
func (e *Engine) Recognize(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}
