package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/surfscan/surfscan/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string) *Record {
	return &Record{
		ScanID:     id,
		Target:     "scanme.example.com",
		Address:    "192.0.2.10",
		Mode:       models.ModeTCPConnect,
		State:      "completed",
		Progress:   1.0,
		TotalPorts: 100,
		OpenPorts:  2,
		Duration:   3 * time.Second,
		FinishedAt: time.Now().UTC().Truncate(time.Second),
		Results: []models.PortScanResult{
			{Port: 22, Open: true, Service: "ssh", Risk: models.RiskHigh},
			{Port: 80, Open: true, Service: "http", Risk: models.RiskMedium},
		},
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("scan-1")
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load("scan-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Target != rec.Target || got.Address != rec.Address {
		t.Errorf("Load() target = %s/%s, want %s/%s",
			got.Target, got.Address, rec.Target, rec.Address)
	}
	if got.Mode != models.ModeTCPConnect {
		t.Errorf("Load() mode = %s, want %s", got.Mode, models.ModeTCPConnect)
	}
	if len(got.Results) != 2 {
		t.Fatalf("Load() returned %d results, want 2", len(got.Results))
	}
	if got.Results[0].Port != 22 || got.Results[0].Risk != models.RiskHigh {
		t.Errorf("Load() first result = %+v", got.Results[0])
	}
	if got.Duration != rec.Duration {
		t.Errorf("Load() duration = %v, want %v", got.Duration, rec.Duration)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)

	rec := sampleRecord("scan-1")
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rec.OpenPorts = 5
	if err := store.Save(rec); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("List() returned %d records, want 1", len(records))
	}
	if records[0].OpenPorts != 5 {
		t.Errorf("OpenPorts = %d, want 5", records[0].OpenPorts)
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	store := newTestStore(t)

	old := sampleRecord("scan-old")
	old.FinishedAt = time.Now().UTC().Add(-time.Hour)
	recent := sampleRecord("scan-new")

	if err := store.Save(old); err != nil {
		t.Fatalf("Save(old) error = %v", err)
	}
	if err := store.Save(recent); err != nil {
		t.Fatalf("Save(recent) error = %v", err)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}
	if records[0].ScanID != "scan-new" {
		t.Errorf("List()[0] = %s, want scan-new", records[0].ScanID)
	}
	// List omits result payloads.
	if records[0].Results != nil {
		t.Errorf("List() should not include results")
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Load("nope"); err == nil {
		t.Error("Load() on missing scan should error")
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save(sampleRecord("scan-1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Delete("scan-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Load("scan-1"); err == nil {
		t.Error("Load() after Delete() should error")
	}
	if err := store.Delete("scan-1"); err == nil {
		t.Error("Delete() on missing scan should error")
	}
}
