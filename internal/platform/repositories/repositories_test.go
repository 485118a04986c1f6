package repositories

import (
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"

	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/models"
)

func setupSchemaDB(t *testing.T) *sql.DB {
	// File-backed with a busy timeout so concurrent writers serialize at the
	// database instead of failing with SQLITE_BUSY.
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
	CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE users (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE admin_applications (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		organization_name TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return db
}

func TestOrganizationRepository_DuplicateName(t *testing.T) {
	repo := NewOrganizationRepository(setupSchemaDB(t))

	org := &models.Organization{ID: "org_1", Name: "Acme", CreatedAt: time.Now().Unix()}
	if err := repo.Create(org); err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}

	dup := &models.Organization{ID: "org_2", Name: "Acme", CreatedAt: time.Now().Unix()}
	err := repo.Create(dup)
	if !apierror.IsKind(err, apierror.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestOrganizationRepository_ConcurrentCreate(t *testing.T) {
	repo := NewOrganizationRepository(setupSchemaDB(t))

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(&models.Organization{
				ID:        "org_" + string(rune('a'+i)),
				Name:      "Acme",
				CreatedAt: time.Now().Unix(),
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !apierror.IsKind(err, apierror.KindConflict) {
			t.Errorf("Expected conflict error, got %v", err)
		}
	}
	if successes != 1 {
		t.Errorf("Expected exactly one successful create, got %d", successes)
	}
}

func TestOrganizationRepository_GetByName(t *testing.T) {
	repo := NewOrganizationRepository(setupSchemaDB(t))

	org := &models.Organization{ID: "org_1", Name: "Acme", CreatedAt: 1700000000}
	if err := repo.Create(org); err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}

	fetched, err := repo.GetByName("Acme")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fetched == nil || fetched.ID != "org_1" {
		t.Errorf("Expected org_1, got %+v", fetched)
	}

	missing, err := repo.GetByName("Ghost Corp")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown name, got %+v", missing)
	}
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupSchemaDB(t)
	orgRepo := NewOrganizationRepository(db)
	userRepo := NewUserRepository(db)

	if err := orgRepo.Create(&models.Organization{ID: "org_1", Name: "Acme", CreatedAt: 1700000000}); err != nil {
		t.Fatalf("Failed to create organization: %v", err)
	}

	user := &models.User{ID: "usr_1", OrganizationID: "org_1", Email: "a@acme.com", PasswordHash: "x", CreatedAt: 1700000000}
	if err := userRepo.Create(user); err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}

	dup := &models.User{ID: "usr_2", OrganizationID: "org_1", Email: "a@acme.com", PasswordHash: "y", CreatedAt: 1700000000}
	if err := userRepo.Create(dup); !apierror.IsKind(err, apierror.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open sqlmock: %v", err)
	}
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "organization_id", "email", "password_hash", "is_admin", "created_at"}).
		AddRow("usr_1", "org_1", "a@acme.com", "hash", true, 1700000000)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
		WithArgs("a@acme.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail("a@acme.com")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user == nil || user.ID != "usr_1" || !user.IsAdmin {
		t.Errorf("Unexpected user: %+v", user)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet sqlmock expectations: %v", err)
	}
}

func TestApplicationRepository_Lifecycle(t *testing.T) {
	repo := NewApplicationRepository(setupSchemaDB(t))

	app := &models.AdminApplication{
		ID:               "app_1",
		Email:            "admin@acme.com",
		PasswordHash:     "hash",
		OrganizationName: "Acme",
		Status:           models.ApplicationStatusPending,
		CreatedAt:        1700000000,
	}
	if err := repo.Create(app); err != nil {
		t.Fatalf("Failed to create application: %v", err)
	}

	dup := &models.AdminApplication{
		ID:               "app_2",
		Email:            "admin@acme.com",
		PasswordHash:     "hash",
		OrganizationName: "Acme",
		Status:           models.ApplicationStatusPending,
		CreatedAt:        1700000000,
	}
	if err := repo.Create(dup); !apierror.IsKind(err, apierror.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}

	pending, err := repo.ListPending()
	if err != nil {
		t.Fatalf("Failed to list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "app_1" {
		t.Errorf("Expected app_1 pending, got %+v", pending)
	}

	if err := repo.UpdateStatus("app_1", models.ApplicationStatusApproved); err != nil {
		t.Fatalf("Failed to update status: %v", err)
	}

	pending, err = repo.ListPending()
	if err != nil {
		t.Fatalf("Failed to list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending applications, got %d", len(pending))
	}

	if err := repo.UpdateStatus("app_missing", models.ApplicationStatusRejected); !apierror.IsKind(err, apierror.KindNotFound) {
		t.Errorf("Expected not-found error, got %v", err)
	}
}
