package reports

import (
	"database/sql"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Insert(report *Report) error {
	query := `
		INSERT INTO reports (id, content_ref, submitted_by, organization_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		report.ID,
		report.ContentRef,
		report.SubmittedBy,
		report.OrganizationID,
		report.CreatedAt,
	)
	return err
}

func (r *Repository) GetByID(id string) (*Report, error) {
	query := `
		SELECT id, content_ref, submitted_by, organization_id, created_at
		FROM reports WHERE id = ?
	`
	row := r.db.QueryRow(query, id)
	report, err := scanReport(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return report, nil
}

// List returns every report, most recent first. The secondary id ordering
// keeps the sequence stable when timestamps collide.
func (r *Repository) List() ([]*Report, error) {
	query := `
		SELECT id, content_ref, submitted_by, organization_id, created_at
		FROM reports
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}

func scanReport(s interface {
	Scan(dest ...interface{}) error
}) (*Report, error) {
	var report Report
	var submittedBy, orgID sql.NullString

	err := s.Scan(
		&report.ID,
		&report.ContentRef,
		&submittedBy,
		&orgID,
		&report.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if submittedBy.Valid {
		val := submittedBy.String
		report.SubmittedBy = &val
	}
	if orgID.Valid {
		val := orgID.String
		report.OrganizationID = &val
	}

	return &report, nil
}
