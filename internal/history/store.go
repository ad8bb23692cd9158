// internal/history/store.go
// SQLite-backed persistence of finished scan sessions

package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/surfscan/surfscan/internal/models"
)

// Record is one persisted scan session.
type Record struct {
	ScanID     string                  `json:"scan_id"`
	Target     string                  `json:"target"`
	Address    string                  `json:"address"`
	Mode       models.ScanMode         `json:"mode"`
	State      string                  `json:"state"`
	Progress   float64                 `json:"progress"`
	TotalPorts int                     `json:"total_ports"`
	OpenPorts  int                     `json:"open_ports"`
	Duration   time.Duration           `json:"duration"`
	FinishedAt time.Time               `json:"finished_at"`
	Results    []models.PortScanResult `json:"results,omitempty"`
}

// Store persists scan records in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the store at dbPath.
// WAL mode keeps readers from blocking the writer.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := createTables(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS scans (
		scan_id TEXT PRIMARY KEY,
		finished_at DATETIME NOT NULL,
		target TEXT NOT NULL,
		address TEXT,
		mode TEXT NOT NULL,
		state TEXT NOT NULL,
		progress REAL NOT NULL,
		total_ports INTEGER NOT NULL,
		open_ports INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		results_json TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_finished_at ON scans(finished_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Save persists one finished session.
func (s *Store) Save(rec *Record) error {
	resultsJSON, err := json.Marshal(rec.Results)
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO scans
		 (scan_id, finished_at, target, address, mode, state, progress,
		  total_ports, open_ports, duration_ns, results_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ScanID, rec.FinishedAt, rec.Target, rec.Address, string(rec.Mode),
		rec.State, rec.Progress, rec.TotalPorts, rec.OpenPorts,
		int64(rec.Duration), string(resultsJSON),
	)
	if err != nil {
		return fmt.Errorf("save scan %s: %w", rec.ScanID, err)
	}
	return nil
}

// List returns all persisted scans, newest first, without result payloads.
func (s *Store) List() ([]*Record, error) {
	rows, err := s.db.Query(
		`SELECT scan_id, finished_at, target, address, mode, state, progress,
		        total_ports, open_ports, duration_ns
		 FROM scans ORDER BY finished_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec := &Record{}
		var mode string
		var durationNS int64
		if err := rows.Scan(&rec.ScanID, &rec.FinishedAt, &rec.Target, &rec.Address,
			&mode, &rec.State, &rec.Progress, &rec.TotalPorts, &rec.OpenPorts,
			&durationNS); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec.Mode = models.ScanMode(mode)
		rec.Duration = time.Duration(durationNS)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Load returns one scan with its full result set.
func (s *Store) Load(scanID string) (*Record, error) {
	rec := &Record{}
	var mode, resultsJSON string
	var durationNS int64

	err := s.db.QueryRow(
		`SELECT scan_id, finished_at, target, address, mode, state, progress,
		        total_ports, open_ports, duration_ns, results_json
		 FROM scans WHERE scan_id = ?`, scanID,
	).Scan(&rec.ScanID, &rec.FinishedAt, &rec.Target, &rec.Address,
		&mode, &rec.State, &rec.Progress, &rec.TotalPorts, &rec.OpenPorts,
		&durationNS, &resultsJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("scan %s not found", scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("load scan %s: %w", scanID, err)
	}

	rec.Mode = models.ScanMode(mode)
	rec.Duration = time.Duration(durationNS)
	if resultsJSON != "" {
		if err := json.Unmarshal([]byte(resultsJSON), &rec.Results); err != nil {
			return nil, fmt.Errorf("decode results for %s: %w", scanID, err)
		}
	}
	return rec, nil
}

// Delete removes one scan.
func (s *Store) Delete(scanID string) error {
	res, err := s.db.Exec(`DELETE FROM scans WHERE scan_id = ?`, scanID)
	if err != nil {
		return fmt.Errorf("delete scan %s: %w", scanID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("scan %s not found", scanID)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
