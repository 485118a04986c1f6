package reports

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
	"github.com/hlee18lee46/clearwhistlenew/internal/platform/models"
)

// Pinner externalizes a structured document to content-addressed storage and
// returns its hash.
type Pinner interface {
	PinJSON(ctx context.Context, content interface{}) (string, error)
}

// Directory resolves organizations and users for the membership check.
type Directory interface {
	GetByID(id string) (*models.Organization, error)
	GetByName(name string) (*models.Organization, error)
}

type UserLookup interface {
	GetByID(id string) (*models.User, error)
}

type Service struct {
	repo   *Repository
	orgs   Directory
	users  UserLookup
	pinner Pinner
}

func NewService(repo *Repository, orgs Directory, users UserLookup, pinner Pinner) *Service {
	return &Service{
		repo:   repo,
		orgs:   orgs,
		users:  users,
		pinner: pinner,
	}
}

type SubmitInput struct {
	Text             string
	SubmittedBy      string // empty for anonymous submissions
	OrganizationID   string
	OrganizationName string // resolved to an id; exclusive with OrganizationID
}

// pinPayload is the document pinned to IPFS. The timestamp matches the stored
// row exactly: both come from a single clock read.
type pinPayload struct {
	Text         string `json:"text"`
	Organization string `json:"organization,omitempty"`
	Timestamp    string `json:"timestamp"`
}

// Submit runs the intake pipeline: validate, resolve organization, verify
// membership for identified submitters, pin the content, then record the
// pointer. Pinning strictly precedes the insert, so a stored report always
// has backing content; a pin with no pointer can occur if the insert fails
// and is harmless on an immutable content-addressed store.
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*Report, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, apierror.Validation("Missing report text")
	}

	var org *models.Organization
	switch {
	case input.OrganizationID != "":
		found, err := s.orgs.GetByID(input.OrganizationID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apierror.NotFound("Organization not found")
		}
		org = found
	case input.OrganizationName != "":
		found, err := s.orgs.GetByName(input.OrganizationName)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, apierror.NotFound("Organization not found")
		}
		org = found
	}

	// Anonymity is a deliberate mode: the membership check runs only when the
	// caller identifies itself.
	var submittedBy *string
	if input.SubmittedBy != "" {
		user, err := s.users.GetByID(input.SubmittedBy)
		if err != nil {
			return nil, err
		}
		if user == nil || org == nil || user.OrganizationID != org.ID {
			return nil, apierror.Forbidden("User not in organization")
		}
		id := input.SubmittedBy
		submittedBy = &id
	}

	now := time.Now().UTC()

	payload := pinPayload{
		Text:      text,
		Timestamp: now.Format(time.RFC3339),
	}
	if org != nil {
		payload.Organization = org.Name
	}

	hash, err := s.pinner.PinJSON(ctx, payload)
	if err != nil {
		return nil, apierror.Upstream("Failed to store report content", err)
	}

	report := &Report{
		ID:          "rpt_" + uuid.NewString(),
		ContentRef:  hash,
		SubmittedBy: submittedBy,
		CreatedAt:   now.Unix(),
	}
	if org != nil {
		orgID := org.ID
		report.OrganizationID = &orgID
	}

	if err := s.repo.Insert(report); err != nil {
		return nil, err
	}

	return report, nil
}

// StoreHash records a pointer for content the caller already pinned. The hash
// is not dereferenced; the caller owns its validity.
func (s *Service) StoreHash(hash string) (*Report, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, apierror.Validation("Missing IPFS hash")
	}

	report := &Report{
		ID:         "rpt_" + uuid.NewString(),
		ContentRef: hash,
		CreatedAt:  time.Now().UTC().Unix(),
	}

	if err := s.repo.Insert(report); err != nil {
		return nil, err
	}

	return report, nil
}

// Get returns the pointer record, never the pinned content itself.
func (s *Service) Get(id string) (*Report, error) {
	report, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, apierror.NotFound("Report not found")
	}
	return report, nil
}

func (s *Service) List() ([]*Report, error) {
	return s.repo.List()
}
