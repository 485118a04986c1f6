package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	apiContext "github.com/hlee18lee46/clearwhistlenew/internal/api/context"
	"github.com/hlee18lee46/clearwhistlenew/internal/engine/reports"
	"github.com/hlee18lee46/clearwhistlenew/internal/pkg/apierror"
)

type ReportHandler struct {
	svc *reports.Service
}

func NewReportHandler(svc *reports.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type SubmitRequest struct {
	ReportText     string `json:"report_text"`
	SubmittedBy    string `json:"submitted_by,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type SubmitResponse struct {
	ReportID string `json:"report_id"`
	IpfsHash string `json:"ipfs_hash"`
}

// Submit accepts identified or anonymous reports scoped by organization id.
func (h *ReportHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.OrganizationID == "" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Missing organization id", nil)
		return
	}

	report, err := h.svc.Submit(r.Context(), reports.SubmitInput{
		Text:           req.ReportText,
		SubmittedBy:    req.SubmittedBy,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if apierror.IsKind(err, apierror.KindUpstream) {
			log.Error().Err(err).Msg("report pinning failed")
		}
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitResponse{
		ReportID: report.ID,
		IpfsHash: report.ContentRef,
	})
}

type SubmitOrgRequest struct {
	ReportText       string `json:"report_text"`
	OrganizationName string `json:"organization_name"`
}

type SubmitOrgResponse struct {
	Message  string `json:"message"`
	IpfsHash string `json:"ipfs_hash"`
}

// SubmitOrg accepts anonymous reports scoped by organization name. There is no
// submitter to check, so no membership check runs.
func (h *ReportHandler) SubmitOrg(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrgRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if req.OrganizationName == "" {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Missing organization name", nil)
		return
	}

	report, err := h.svc.Submit(r.Context(), reports.SubmitInput{
		Text:             req.ReportText,
		OrganizationName: req.OrganizationName,
	})
	if err != nil {
		if apierror.IsKind(err, apierror.KindUpstream) {
			log.Error().Err(err).Msg("report pinning failed")
		}
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SubmitOrgResponse{
		Message:  "Report submitted",
		IpfsHash: report.ContentRef,
	})
}

type StoreHashRequest struct {
	IpfsHash string `json:"ipfs_hash"`
}

type StoreHashResponse struct {
	Message  string `json:"message"`
	ReportID string `json:"report_id"`
}

// StoreHash records a pointer for content the client pinned itself.
func (h *ReportHandler) StoreHash(w http.ResponseWriter, r *http.Request) {
	var req StoreHashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteError(w, http.StatusBadRequest, apierror.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	report, err := h.svc.StoreHash(req.IpfsHash)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(StoreHashResponse{
		Message:  "Hash stored",
		ReportID: report.ID,
	})
}

// ReportView is the wire shape of a report pointer. Content holds the IPFS
// hash; dereferencing it against the gateway is the viewer's job.
type ReportView struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

func viewOf(report *reports.Report) ReportView {
	return ReportView{
		ID:        report.ID,
		Content:   report.ContentRef,
		Timestamp: time.Unix(report.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	ps := r.Context().Value(apiContext.Params).(httprouter.Params)

	report, err := h.svc.Get(ps.ByName("report_id"))
	if err != nil {
		apierror.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(viewOf(report))
}

func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.svc.List()
	if err != nil {
		apierror.WriteError(w, http.StatusInternalServerError, apierror.ErrCodeInternal, "Database error", nil)
		return
	}

	result := make([]ReportView, 0, len(all))
	for _, report := range all {
		result = append(result, viewOf(report))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
