package models

import (
	"fmt"
	"time"

	"docflow/pkg/platform/sentinel"
)

// Patch is the set of field changes written by one transition. Status is
// always written; nil pointers leave the stored field untouched.
type Patch struct {
	Status               Status
	TranslatedFilePath   *string
	TranslatedFilename   *string
	TranslatedFileSize   *int64
	TranslatedUploadedAt *time.Time
	RejectionReason      *string
	UserConfirmedAt      *time.Time
	AdminVerifiedAt      *time.Time
	AdminNotes           *string
	UpdatedAt            time.Time
}

// StatusMismatchError is returned by a conditional update whose expected
// status no longer matches the stored record. It unwraps to
// sentinel.ErrInvalidState.
type StatusMismatchError struct {
	Expected Status
	Current  Status
}

func (e *StatusMismatchError) Error() string {
	return fmt.Sprintf("status mismatch: expected %s, found %s", e.Expected, e.Current)
}

func (e *StatusMismatchError) Unwrap() error {
	return sentinel.ErrInvalidState
}

// ListFilter selects documents for list queries. Zero values mean "any".
type ListFilter struct {
	Status    Status
	UserEmail string
	Limit     int
	Offset    int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// Normalize applies pagination defaults and bounds.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// Matches reports whether d passes the filter's predicates (pagination ignored).
func (f ListFilter) Matches(d *TranslationDocument) bool {
	if f.Status != "" && d.Status != f.Status {
		return false
	}
	if f.UserEmail != "" && d.UserEmail != f.UserEmail {
		return false
	}
	return true
}

// Page is one page of a list query.
type Page struct {
	Documents []*TranslationDocument
	Total     int
	Limit     int
	Offset    int
}
