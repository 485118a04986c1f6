package repositories

import (
	"database/sql"
	"errors"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/models"
)

// isUniqueViolation reports whether err is a unique-constraint failure.
// Uniqueness of organization names and user emails is owned by the schema, so
// concurrent identical inserts race at the database and exactly one wins.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

type OrganizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(org *models.Organization) error {
	_, err := r.db.Exec(`
		INSERT INTO organizations (id, name, created_at)
		VALUES (?, ?, ?)
	`, org.ID, org.Name, org.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.Conflict("Organization already exists")
	}
	return err
}

func (r *OrganizationRepository) GetByID(id string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRow(`
		SELECT id, name, created_at FROM organizations WHERE id = ?
	`, id).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

func (r *OrganizationRepository) GetByName(name string) (*models.Organization, error) {
	org := &models.Organization{}
	err := r.db.QueryRow(`
		SELECT id, name, created_at FROM organizations WHERE name = ?
	`, name).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return org, nil
}

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	_, err := r.db.Exec(`
		INSERT INTO users (id, organization_id, email, password_hash, is_admin, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.OrganizationID, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.Conflict("User already exists")
	}
	return err
}

func (r *UserRepository) GetByID(id string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, email, password_hash, is_admin, created_at
		FROM users WHERE id = ?
	`, id).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, organization_id, email, password_hash, is_admin, created_at
		FROM users WHERE email = ?
	`, email).Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) ListByOrganization(orgID string) ([]*models.User, error) {
	rows, err := r.db.Query(`
		SELECT id, organization_id, email, password_hash, is_admin, created_at
		FROM users WHERE organization_id = ? ORDER BY created_at ASC
	`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(&user.ID, &user.OrganizationID, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(app *models.AdminApplication) error {
	_, err := r.db.Exec(`
		INSERT INTO admin_applications (id, email, password_hash, organization_name, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, app.ID, app.Email, app.PasswordHash, app.OrganizationName, app.Status, app.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.Conflict("Application with this email already exists")
	}
	return err
}

func (r *ApplicationRepository) GetByID(id string) (*models.AdminApplication, error) {
	app := &models.AdminApplication{}
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, organization_name, status, created_at
		FROM admin_applications WHERE id = ?
	`, id).Scan(&app.ID, &app.Email, &app.PasswordHash, &app.OrganizationName, &app.Status, &app.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return app, nil
}

func (r *ApplicationRepository) ListPending() ([]*models.AdminApplication, error) {
	rows, err := r.db.Query(`
		SELECT id, email, password_hash, organization_name, status, created_at
		FROM admin_applications WHERE status = ? ORDER BY created_at ASC
	`, models.ApplicationStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []*models.AdminApplication
	for rows.Next() {
		app := &models.AdminApplication{}
		if err := rows.Scan(&app.ID, &app.Email, &app.PasswordHash, &app.OrganizationName, &app.Status, &app.CreatedAt); err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *ApplicationRepository) UpdateStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE admin_applications SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NotFound("Application not found")
	}
	return nil
}
