// internal/models/types.go
// Core data models for the attack-surface scanner

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ScanMode selects the probing strategy for a scan.
type ScanMode string

const (
	ModeTCPConnect    ScanMode = "connect"
	ModeSYN           ScanMode = "syn"
	ModeUDP           ScanMode = "udp"
	ModeComprehensive ScanMode = "comprehensive"
)

// ParseScanMode converts a user-supplied mode string into a ScanMode.
func ParseScanMode(s string) (ScanMode, error) {
	switch ScanMode(s) {
	case ModeTCPConnect, ModeSYN, ModeUDP, ModeComprehensive:
		return ScanMode(s), nil
	}
	return "", fmt.Errorf("unknown scan mode: %q (must be connect, syn, udp, or comprehensive)", s)
}

// RiskLevel is the ordered severity classification of an open port's exposure.
type RiskLevel int

const (
	RiskInfo RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

// String returns the lowercase name of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskInfo:
		return "info"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	}
	return "unknown"
}

// MarshalJSON encodes the risk level as its string name.
func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a risk level from its string name.
func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "info":
		*r = RiskInfo
	case "low":
		*r = RiskLow
	case "medium":
		*r = RiskMedium
	case "high":
		*r = RiskHigh
	case "critical":
		*r = RiskCritical
	default:
		return fmt.Errorf("unknown risk level: %q", s)
	}
	return nil
}

// ToolKind describes how an external tool relates to an attack vector.
type ToolKind string

const (
	ToolRequired ToolKind = "required"
	ToolOptional ToolKind = "optional"
	ToolBuiltin  ToolKind = "builtin"
	ToolGUI      ToolKind = "gui"
)

// ToolRequirement describes an external program referenced by an attack
// vector's commands. The scanner never invokes these itself; they are
// documentation for the operator.
type ToolRequirement struct {
	Name        string   `json:"name"`
	Kind        ToolKind `json:"kind"`
	Description string   `json:"description,omitempty"`
}

// AttackVector is a catalogued technique applicable to an open port/service.
// Commands contain {target} and {port} placeholder tokens; substitution is
// the caller's responsibility.
type AttackVector struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Severity    RiskLevel         `json:"severity"`
	Tools       []ToolRequirement `json:"tools,omitempty"`
	Commands    []string          `json:"commands,omitempty"`
	References  []string          `json:"references,omitempty"`
}

// ScanTarget pairs the operator's raw input with its resolved address.
// Address is set exactly once by the resolver and immutable thereafter.
type ScanTarget struct {
	Raw     string `json:"raw"`
	Address string `json:"address,omitempty"`
}

// PortScanResult is the immutable outcome of probing one port. A rescan
// produces a new result, never an update of an old one.
type PortScanResult struct {
	Port     int            `json:"port"`
	Open     bool           `json:"open"`
	Service  string         `json:"service,omitempty"`
	Banner   string         `json:"banner,omitempty"`
	Version  string         `json:"version,omitempty"`
	Risk     RiskLevel      `json:"risk"`
	Vectors  []AttackVector `json:"attack_vectors,omitempty"`
	ScanTime time.Duration  `json:"scan_time"`
}

// OpenPortEvent is the fire-and-forget hand-off emitted once per newly
// discovered open port, consumed by downstream recommendation subsystems.
type OpenPortEvent struct {
	ScanID    string    `json:"scan_id"`
	Address   string    `json:"address"`
	Port      int       `json:"port"`
	Service   string    `json:"service,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Progress is a point-in-time view of a running scan.
type Progress struct {
	ScanID         string        `json:"scan_id"`
	Target         string        `json:"target"`
	TotalPorts     int           `json:"total_ports"`
	ScannedPorts   int           `json:"scanned_ports"`
	OpenPorts      int           `json:"open_ports"`
	CompletedBatch int           `json:"completed_batches"`
	TotalBatches   int           `json:"total_batches"`
	Percent        float64       `json:"percent"`
	Elapsed        time.Duration `json:"elapsed"`
}
