package tables

import (
	"github.com/tsawler/docharvest/model"
)

// Method names for the three detection methods.
const (
	MethodLattice = "lattice"
	MethodStream  = "stream"
	MethodTextual = "textual"
)

// Detector is the interface for table detection algorithms.
type Detector interface {
	// Detect finds tables in the given page content.
	Detect(content *model.PageContent) ([]*model.Table, error)

	// Name returns the detector name.
	Name() string

	// Configure sets detector parameters.
	Configure(config Config) error
}

// Config holds detector configuration.
type Config struct {
	// Minimum rows for a valid table
	MinRows int

	// Minimum columns for a valid table
	MinCols int

	// Minimum confidence threshold (0-1)
	MinConfidence float64

	// Tolerance for row/column alignment (points)
	AlignmentTolerance float64

	// Maximum gap between text fragments to consider them in same cluster (points)
	MaxClusterGap float64

	// Minimum ruling line length to consider (points)
	MinLineLength float64

	// Bounding-box overlap ratio above which two detections are considered
	// the same table during reconciliation
	OverlapThreshold float64
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:            2,
		MinCols:            2,
		MinConfidence:      0.5,
		AlignmentTolerance: 3.0,
		MaxClusterGap:      20.0,
		MinLineLength:      10.0,
		OverlapThreshold:   0.5,
	}
}

// DetectorRegistry holds registered detectors.
type DetectorRegistry struct {
	detectors map[string]Detector
}

// NewRegistry creates a new detector registry.
func NewRegistry() *DetectorRegistry {
	return &DetectorRegistry{
		detectors: make(map[string]Detector),
	}
}

// Register registers a detector.
func (r *DetectorRegistry) Register(detector Detector) {
	r.detectors[detector.Name()] = detector
}

// Get retrieves a detector by name.
func (r *DetectorRegistry) Get(name string) Detector {
	return r.detectors[name]
}

// List returns all registered detector names.
func (r *DetectorRegistry) List() []string {
	names := make([]string, 0, len(r.detectors))
	for name := range r.detectors {
		names = append(names, name)
	}
	return names
}

// Global registry
var globalRegistry = NewRegistry()

// RegisterDetector registers a detector globally.
func RegisterDetector(detector Detector) {
	globalRegistry.Register(detector)
}

// GetDetector retrieves a detector by name.
func GetDetector(name string) Detector {
	return globalRegistry.Get(name)
}

// ListDetectors returns all registered detector names.
func ListDetectors() []string {
	return globalRegistry.List()
}

// NewDetector creates a fresh detector instance for a method name, or nil
// for an unknown name. Detectors hold configuration, so concurrent callers
// should each construct their own rather than share registry instances.
func NewDetector(name string) Detector {
	switch name {
	case MethodLattice:
		return NewLatticeDetector()
	case MethodStream:
		return NewStreamDetector()
	case MethodTextual:
		return NewTextualDetector()
	default:
		return nil
	}
}

func init() {
	RegisterDetector(NewLatticeDetector())
	RegisterDetector(NewStreamDetector())
	RegisterDetector(NewTextualDetector())
}
