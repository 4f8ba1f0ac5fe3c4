package handler

import "time"

// SubmitResponse is the HTTP response for POST /translations.
type SubmitResponse struct {
	Success    bool   `json:"success"`
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

// UploadResponse is the HTTP response for POST /admin/translations/{id}/upload.
type UploadResponse struct {
	Status             string `json:"status"`
	TranslatedFilePath string `json:"translated_file_path"`
}

// ConfirmResponse is the HTTP response for POST /translations/{id}/confirm.
type ConfirmResponse struct {
	Status      string     `json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}

// RequestChangesResponse is the HTTP response for
// POST /translations/{id}/request-changes.
type RequestChangesResponse struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejection_reason"`
}

// VerifyResponse is the HTTP response for POST /admin/translations/{id}/verify.
type VerifyResponse struct {
	Status     string     `json:"status"`
	VerifiedAt *time.Time `json:"verified_at"`
	Notes      string     `json:"notes"`
}
