package models

import (
	"time"

	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
)

// TranslationDocument is the aggregate root of the translation workflow.
//
// Invariants:
//   - ID and CreatedAt are immutable after construction
//   - Status only changes along the edges defined in status.go
//   - A document without TranslatedFilePath never reaches USER_CONFIRMED or VERIFIED
//   - UserConfirmedAt and AdminVerifiedAt are stamped once and never cleared
//   - RejectionReason is overwritten by each change request and kept across re-uploads
type TranslationDocument struct {
	ID     id.DocumentID `json:"id"`
	Status Status        `json:"status"`

	UserEmail    string          `json:"user_email"`
	UserName     string          `json:"user_name"`
	DocumentType id.DocumentType `json:"document_type"`
	UserNotes    string          `json:"user_notes,omitempty"`

	OriginalFilePath string `json:"original_file_path"`
	OriginalFilename string `json:"original_filename"`
	OriginalFileSize int64  `json:"original_file_size"`
	OriginalMimeType string `json:"original_mime_type"`
	PageCount        int    `json:"page_count,omitempty"`

	TranslatedFilePath   string     `json:"translated_file_path,omitempty"`
	TranslatedFilename   string     `json:"translated_filename,omitempty"`
	TranslatedFileSize   int64      `json:"translated_file_size,omitempty"`
	TranslatedUploadedAt *time.Time `json:"translated_uploaded_at,omitempty"`

	RejectionReason string     `json:"rejection_reason,omitempty"`
	UserConfirmedAt *time.Time `json:"user_confirmed_at,omitempty"`
	AdminVerifiedAt *time.Time `json:"admin_verified_at,omitempty"`
	AdminNotes      string     `json:"admin_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDocumentParams carries the intake fields of a submission.
type NewDocumentParams struct {
	ID               id.DocumentID
	UserEmail        string
	UserName         string
	DocumentType     id.DocumentType
	UserNotes        string
	OriginalFilePath string
	OriginalFilename string
	OriginalFileSize int64
	OriginalMimeType string
	PageCount        int
}

// NewTranslationDocument builds a PENDING document, enforcing intake invariants.
func NewTranslationDocument(p NewDocumentParams, now time.Time) (*TranslationDocument, error) {
	if p.ID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document id cannot be nil")
	}
	if p.UserEmail == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user email cannot be empty")
	}
	if p.OriginalFilePath == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "original file path cannot be empty")
	}
	if !p.DocumentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document type is not supported")
	}
	return &TranslationDocument{
		ID:               p.ID,
		Status:           StatusPending,
		UserEmail:        p.UserEmail,
		UserName:         p.UserName,
		DocumentType:     p.DocumentType,
		UserNotes:        p.UserNotes,
		OriginalFilePath: p.OriginalFilePath,
		OriginalFilename: p.OriginalFilename,
		OriginalFileSize: p.OriginalFileSize,
		OriginalMimeType: p.OriginalMimeType,
		PageCount:        p.PageCount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// HasTranslation reports whether an admin has uploaded a translated artifact.
func (d *TranslationDocument) HasTranslation() bool {
	return d.TranslatedFilePath != ""
}

// OwnedBy reports whether email is the requester of the document.
func (d *TranslationDocument) OwnedBy(email string) bool {
	return d.UserEmail != "" && d.UserEmail == email
}

// Apply copies the set fields of p onto the document. Stores call it inside
// their conditional update after the expected status has been checked.
func (d *TranslationDocument) Apply(p Patch) {
	d.Status = p.Status
	if p.TranslatedFilePath != nil {
		d.TranslatedFilePath = *p.TranslatedFilePath
	}
	if p.TranslatedFilename != nil {
		d.TranslatedFilename = *p.TranslatedFilename
	}
	if p.TranslatedFileSize != nil {
		d.TranslatedFileSize = *p.TranslatedFileSize
	}
	if p.TranslatedUploadedAt != nil {
		t := *p.TranslatedUploadedAt
		d.TranslatedUploadedAt = &t
	}
	if p.RejectionReason != nil {
		d.RejectionReason = *p.RejectionReason
	}
	if p.UserConfirmedAt != nil && d.UserConfirmedAt == nil {
		t := *p.UserConfirmedAt
		d.UserConfirmedAt = &t
	}
	if p.AdminVerifiedAt != nil && d.AdminVerifiedAt == nil {
		t := *p.AdminVerifiedAt
		d.AdminVerifiedAt = &t
	}
	if p.AdminNotes != nil {
		d.AdminNotes = *p.AdminNotes
	}
	d.UpdatedAt = p.UpdatedAt
}

// Clone returns a deep copy so in-memory stores never hand out shared pointers.
func (d *TranslationDocument) Clone() *TranslationDocument {
	c := *d
	c.TranslatedUploadedAt = cloneTime(d.TranslatedUploadedAt)
	c.UserConfirmedAt = cloneTime(d.UserConfirmedAt)
	c.AdminVerifiedAt = cloneTime(d.AdminVerifiedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
