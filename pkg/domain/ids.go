package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "docflow/pkg/domain-errors"
)

// DocumentID identifies a translation document. Constructed via
// ParseDocumentID at trust boundaries or NewDocumentID at creation.
type DocumentID uuid.UUID

// NewDocumentID returns a fresh random document ID.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.New())
}

// ParseDocumentID parses external input into a DocumentID.
//
// Errors: returns CodeValidation when the value is empty, malformed or the nil UUID.
func ParseDocumentID(s string) (DocumentID, error) {
	if strings.TrimSpace(s) == "" {
		return DocumentID{}, dErrors.New(dErrors.CodeValidation, "document id is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, dErrors.New(dErrors.CodeValidation, "document id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return DocumentID{}, dErrors.New(dErrors.CodeValidation, "document id must not be nil")
	}
	return DocumentID(parsed), nil
}

func (d DocumentID) String() string {
	return uuid.UUID(d).String()
}

// IsNil reports whether the ID is the zero value.
func (d DocumentID) IsNil() bool {
	return uuid.UUID(d) == uuid.Nil
}

func (d DocumentID) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*d = DocumentID(parsed)
	return nil
}
