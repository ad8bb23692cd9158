// internal/output/console.go
// Console output formatter with risk-colored report table

package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/surfscan/surfscan/internal/models"
)

// Lipgloss styles shared by the console formatter.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	// Risk-level colors, info through critical.
	riskStyles = map[models.RiskLevel]lipgloss.Style{
		models.RiskInfo:     cellStyle.Foreground(lipgloss.Color("#6C757D")),
		models.RiskLow:      cellStyle.Foreground(lipgloss.Color("#04B575")),
		models.RiskMedium:   cellStyle.Foreground(lipgloss.Color("#FFD93D")),
		models.RiskHigh:     cellStyle.Foreground(lipgloss.Color("#FF9F43")),
		models.RiskCritical: cellStyle.Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}

	openTag = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
)

// ConsoleFormatter streams open-port lines and renders a final report table.
type ConsoleFormatter struct {
	writer  io.Writer
	color   bool
	verbose bool
	mu      sync.Mutex
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(w io.Writer, color, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{writer: w, color: color, verbose: verbose}
}

// Write prints one result line as it is published. Closed ports are
// skipped unless verbose.
func (f *ConsoleFormatter) Write(result *models.PortScanResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !result.Open {
		if f.verbose {
			fmt.Fprintf(f.writer, "[closed] %d (%v)\n", result.Port, result.ScanTime)
		}
		return nil
	}

	tag := "[open]"
	if f.color {
		tag = openTag.Render("[open]")
	}
	line := fmt.Sprintf("%s %d/%s", tag, result.Port, serviceOrDash(result.Service))
	if result.Banner != "" {
		line += fmt.Sprintf(" %q", result.Banner)
	}
	line += " risk=" + result.Risk.String()
	fmt.Fprintln(f.writer, line)
	return nil
}

// Finish renders the result table and, in verbose mode, the attack
// vectors for every open port.
func (f *ConsoleFormatter) Finish(summary *Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(summary.Results) == 0 {
		fmt.Fprintln(f.writer, "No results")
		return nil
	}

	rows := make([][]string, 0, len(summary.Results))
	risks := make([]models.RiskLevel, 0, len(summary.Results))
	openCount := 0
	for _, r := range summary.Results {
		state := "closed"
		if r.Open {
			state = "open"
			openCount++
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", r.Port),
			state,
			serviceOrDash(r.Service),
			r.Risk.String(),
			fmt.Sprintf("%d", len(r.Vectors)),
		})
		risks = append(risks, r.Risk)
	}

	styleFunc := func(row, col int) lipgloss.Style {
		if row == 0 {
			return headerStyle
		}
		if !f.color {
			return cellStyle
		}
		if col == 3 {
			if style, ok := riskStyles[risks[row-1]]; ok {
				return style
			}
		}
		return cellStyle
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("PORT", "STATE", "SERVICE", "RISK", "VECTORS").
		Rows(rows...).
		StyleFunc(styleFunc)

	fmt.Fprintf(f.writer, "\nScan %s  %s (%s)  mode=%s  state=%s\n",
		summary.ScanID, summary.Target, summary.Address, summary.Mode, summary.State)
	fmt.Fprintln(f.writer, t.Render())
	fmt.Fprintf(f.writer, "%d ports scanned, %d open, finished in %v\n",
		len(summary.Results), openCount, summary.Duration.Round(time.Millisecond))

	if f.verbose {
		f.printVectors(summary)
	}
	return nil
}

// printVectors prints the attack surface detail for open ports.
func (f *ConsoleFormatter) printVectors(summary *Summary) {
	for _, r := range summary.Results {
		if !r.Open || len(r.Vectors) == 0 {
			continue
		}
		fmt.Fprintf(f.writer, "\n%d/%s (%s):\n", r.Port, serviceOrDash(r.Service), r.Risk)
		for _, v := range r.Vectors {
			fmt.Fprintf(f.writer, "  - %s [%s]\n", v.Name, v.Severity)
			if v.Description != "" {
				fmt.Fprintf(f.writer, "    %s\n", v.Description)
			}
			for _, cmd := range v.Commands {
				cmd = strings.ReplaceAll(cmd, "{target}", summary.Address)
				cmd = strings.ReplaceAll(cmd, "{port}", fmt.Sprintf("%d", r.Port))
				fmt.Fprintf(f.writer, "    $ %s\n", cmd)
			}
			if len(v.References) > 0 {
				fmt.Fprintf(f.writer, "    refs: %s\n", strings.Join(v.References, ", "))
			}
		}
	}
}

// Flush is a no-op for console
func (f *ConsoleFormatter) Flush() error {
	return nil
}

// Close is a no-op for console
func (f *ConsoleFormatter) Close() error {
	return nil
}

func serviceOrDash(service string) string {
	if service == "" {
		return "-"
	}
	return service
}

// SimpleProgressReporter prints a throttled single-line progress display.
type SimpleProgressReporter struct {
	writer     io.Writer
	startTime  time.Time
	lastUpdate time.Time
	mu         sync.Mutex
}

// NewSimpleProgressReporter creates a simple progress reporter
func NewSimpleProgressReporter(w io.Writer) *SimpleProgressReporter {
	now := time.Now()
	return &SimpleProgressReporter{writer: w, startTime: now, lastUpdate: now.Add(-time.Second)}
}

// UpdateProgress updates progress display
func (r *SimpleProgressReporter) UpdateProgress(progress models.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Throttle updates to every 500ms, but always show completion.
	if progress.Percent < 1.0 && time.Since(r.lastUpdate) < 500*time.Millisecond {
		return
	}
	r.lastUpdate = time.Now()

	fmt.Fprintf(r.writer, "\r[%6.2f%%] batch %d/%d | ports %d/%d | open: %d",
		progress.Percent*100, progress.CompletedBatch, progress.TotalBatches,
		progress.ScannedPorts, progress.TotalPorts, progress.OpenPorts)
	if progress.Percent >= 1.0 {
		fmt.Fprintln(r.writer)
	}
}
