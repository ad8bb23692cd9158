// internal/output/interface.go
// Output formatter interfaces

package output

import (
	"errors"
	"time"

	"github.com/surfscan/surfscan/internal/models"
)

// Summary describes a finished scan for final rendering.
type Summary struct {
	ScanID   string                  `json:"scan_id"`
	Target   string                  `json:"target"`
	Address  string                  `json:"address"`
	Mode     models.ScanMode         `json:"mode"`
	State    string                  `json:"state"`
	Duration time.Duration           `json:"duration"`
	Results  []models.PortScanResult `json:"results"`
}

// Formatter is the base interface for all output formatters
type Formatter interface {
	// Write writes a single scan result as it is published
	Write(result *models.PortScanResult) error

	// Finish renders the final report for a completed scan
	Finish(summary *Summary) error

	// Flush ensures all buffered data is written
	Flush() error

	// Close closes the formatter and releases resources
	Close() error
}

// ProgressReporter handles scan progress updates
type ProgressReporter interface {
	// UpdateProgress updates the current progress
	UpdateProgress(progress models.Progress)
}

// MultiFormatter allows writing to multiple formatters simultaneously
type MultiFormatter struct {
	formatters []Formatter
}

// NewMultiFormatter creates a new multi-formatter
func NewMultiFormatter(formatters ...Formatter) *MultiFormatter {
	return &MultiFormatter{formatters: formatters}
}

// Write writes to all formatters
func (m *MultiFormatter) Write(result *models.PortScanResult) error {
	for _, f := range m.formatters {
		if err := f.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// Finish finishes all formatters
func (m *MultiFormatter) Finish(summary *Summary) error {
	for _, f := range m.formatters {
		if err := f.Finish(summary); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes all formatters
func (m *MultiFormatter) Flush() error {
	for _, f := range m.formatters {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all formatters
func (m *MultiFormatter) Close() error {
	var errs []error
	for _, f := range m.formatters {
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.New("multiple close errors occurred")
	}
	return nil
}

// Common formatter errors
var (
	ErrInvalidFormat         = errors.New("invalid output format")
	ErrOutputFileNotWritable = errors.New("output file is not writable")
)
