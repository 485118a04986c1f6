package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(Validation("missing text")); got != KindValidation {
		t.Errorf("KindOf() = %v, want %v", got, KindValidation)
	}

	wrapped := fmt.Errorf("handler: %w", Conflict("duplicate"))
	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("KindOf(wrapped) = %v, want %v", got, KindConflict)
	}

	if got := KindOf(errors.New("plain")); got != KindInternal {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindInternal)
	}
}

func TestUpstreamUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("pin failed", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected Upstream to wrap its cause")
	}
}

func TestWrite(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{Validation("missing text"), http.StatusBadRequest, ErrCodeInvalidInput},
		{Conflict("duplicate"), http.StatusBadRequest, ErrCodeConflict},
		{NotFound("missing"), http.StatusNotFound, ErrCodeNotFound},
		{Forbidden("not in org"), http.StatusForbidden, ErrCodeForbidden},
		{Unauthorized("bad credentials"), http.StatusUnauthorized, ErrCodeUnauthorized},
		{Upstream("pin failed", errors.New("boom")), http.StatusInternalServerError, ErrCodeUpstream},
		{errors.New("plain"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		rr := httptest.NewRecorder()
		Write(rr, tc.err)

		if rr.Code != tc.wantStatus {
			t.Errorf("Write(%v) status = %d, want %d", tc.err, rr.Code, tc.wantStatus)
		}

		var body ErrorResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("Failed to decode error body: %v", err)
		}
		if body.Code != tc.wantCode {
			t.Errorf("Write(%v) code = %s, want %s", tc.err, body.Code, tc.wantCode)
		}
	}
}
