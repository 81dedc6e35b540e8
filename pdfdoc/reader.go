package pdfdoc

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Reader provides read access to one PDF document.
type Reader struct {
	path string
	ctx  *pdfmodel.Context
	dims []types.Dim
}

// Open opens and validates a PDF file. Validation happens eagerly so that a
// document-level failure surfaces before any page processing begins.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	conf := pdfmodel.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read %s: %w", filepath.Base(path), err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("page dimensions: %w", err)
	}

	return &Reader{path: path, ctx: ctx, dims: dims}, nil
}

// Close releases the reader. Safe to call multiple times.
func (r *Reader) Close() error {
	r.ctx = nil
	return nil
}

// Path returns the path the reader was opened from.
func (r *Reader) Path() string {
	return r.path
}

// PageCount returns the number of pages in the document.
func (r *Reader) PageCount() int {
	if r.ctx == nil {
		return 0
	}
	return r.ctx.PageCount
}

// Metadata returns the document information dictionary as an opaque
// key/value map. Missing fields are simply absent; a document without an
// info dictionary yields an empty map.
func (r *Reader) Metadata() map[string]string {
	meta := make(map[string]string)
	if r.ctx == nil || r.ctx.Info == nil {
		return meta
	}

	d, err := r.ctx.DereferenceDict(*r.ctx.Info)
	if err != nil || d == nil {
		return meta
	}

	for key, raw := range d {
		obj, err := r.ctx.Dereference(raw)
		if err != nil {
			continue
		}
		if v := objectString(obj); v != "" {
			meta[key] = v
		}
	}
	return meta
}

// objectString renders an info dictionary value as plain text.
func objectString(obj types.Object) string {
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.Name:
		return v.Value()
	case types.Integer:
		return v.String()
	case types.Float:
		return v.String()
	default:
		return ""
	}
}

// pageDim returns the dimensions for a 0-based page index.
func (r *Reader) pageDim(pageIndex int) (width, height float64) {
	if pageIndex < 0 || pageIndex >= len(r.dims) {
		return 0, 0
	}
	return r.dims[pageIndex].Width, r.dims[pageIndex].Height
}
