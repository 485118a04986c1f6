package reports

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	query := `
	CREATE TABLE reports (
		id TEXT PRIMARY KEY,
		content_ref TEXT NOT NULL,
		submitted_by TEXT,
		organization_id TEXT,
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(query); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return db
}

func TestRepository_InsertAndGet(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	orgID := "org_1"
	report := &Report{
		ID:             "rpt_1",
		ContentRef:     "Qm123",
		OrganizationID: &orgID,
		CreatedAt:      1700000000,
	}

	if err := repo.Insert(report); err != nil {
		t.Fatalf("Failed to insert report: %v", err)
	}

	fetched, err := repo.GetByID("rpt_1")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected report, got nil")
	}
	if fetched.ContentRef != "Qm123" {
		t.Errorf("Expected content ref Qm123, got %s", fetched.ContentRef)
	}
	if fetched.OrganizationID == nil || *fetched.OrganizationID != "org_1" {
		t.Errorf("Expected organization org_1, got %v", fetched.OrganizationID)
	}
	if fetched.SubmittedBy != nil {
		t.Errorf("Expected anonymous report, got submitter %v", *fetched.SubmittedBy)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	fetched, err := repo.GetByID("rpt_missing")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fetched != nil {
		t.Errorf("Expected nil for missing report, got %+v", fetched)
	}
}

func TestRepository_ListOrdering(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	// Inserted out of order on purpose; List must come back newest first.
	timestamps := []int64{1700000100, 1700000300, 1700000200}
	for i, ts := range timestamps {
		report := &Report{
			ID:         "rpt_" + string(rune('a'+i)),
			ContentRef: "Qm" + string(rune('a'+i)),
			CreatedAt:  ts,
		}
		if err := repo.Insert(report); err != nil {
			t.Fatalf("Failed to insert report: %v", err)
		}
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("Failed to list reports: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 reports, got %d", len(all))
	}

	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt > all[i-1].CreatedAt {
			t.Errorf("Reports out of order at %d: %d > %d", i, all[i].CreatedAt, all[i-1].CreatedAt)
		}
	}
	if all[0].CreatedAt != 1700000300 {
		t.Errorf("Expected newest report first, got timestamp %d", all[0].CreatedAt)
	}
}
