package handler

import (
	"strings"

	dErrors "docflow/pkg/domain-errors"
)

const (
	maxReasonLength = 2000
	maxNotesLength  = 2000
)

// RequestChangesRequest is the body of POST /translations/{id}/request-changes.
type RequestChangesRequest struct {
	Reason string `json:"reason"`
}

// Validate implements httputil.Validatable.
func (r *RequestChangesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Reason) > maxReasonLength {
		return dErrors.New(dErrors.CodeValidation, "reason is too long")
	}
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

// VerifyRequest is the optional body of POST /admin/translations/{id}/verify.
type VerifyRequest struct {
	Notes string `json:"notes"`
}

// Validate implements httputil.Validatable.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return nil
	}
	if len(r.Notes) > maxNotesLength {
		return dErrors.New(dErrors.CodeValidation, "notes are too long")
	}
	r.Notes = strings.TrimSpace(r.Notes)
	return nil
}
