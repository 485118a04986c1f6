package reports

// Report is a pointer record for a pinned report body. The row never changes
// after insert: content lives on IPFS under ContentRef, and the record only
// proves when it was filed and by whom.
type Report struct {
	ID             string  `json:"id"`
	ContentRef     string  `json:"content_ref"`
	SubmittedBy    *string `json:"submitted_by,omitempty"`
	OrganizationID *string `json:"organization_id,omitempty"`
	CreatedAt      int64   `json:"created_at"`
}
