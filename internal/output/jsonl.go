// internal/output/jsonl.go
// JSON Lines output formatter

package output

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/surfscan/surfscan/internal/models"
)

// JSONLFormatter writes results as JSON Lines
type JSONLFormatter struct {
	encoder *json.Encoder
	writer  io.WriteCloser
	buffer  *bufio.Writer
	mu      sync.Mutex
}

// NewJSONLFormatter creates a new JSONL formatter
func NewJSONLFormatter(filename string) (*JSONLFormatter, error) {
	// Ensure directory exists
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}

	buffer := bufio.NewWriterSize(file, 64*1024) // 64KB buffer

	return &JSONLFormatter{
		encoder: json.NewEncoder(buffer),
		writer:  file,
		buffer:  buffer,
	}, nil
}

// record tags each line so readers can tell results from the summary.
type record struct {
	Type    string                 `json:"type"`
	Result  *models.PortScanResult `json:"result,omitempty"`
	Summary *Summary               `json:"summary,omitempty"`
}

// Write writes a single result
func (f *JSONLFormatter) Write(result *models.PortScanResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.encoder.Encode(record{Type: "result", Result: result})
}

// Finish writes the summary line
func (f *JSONLFormatter) Finish(summary *Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// The summary carries the full result set; per-line results already
	// streamed, so strip them here to keep the line small.
	trimmed := *summary
	trimmed.Results = nil
	return f.encoder.Encode(record{Type: "summary", Summary: &trimmed})
}

// Flush flushes the buffer
func (f *JSONLFormatter) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.buffer.Flush()
}

// Close closes the file
func (f *JSONLFormatter) Close() error {
	f.Flush()
	return f.writer.Close()
}
