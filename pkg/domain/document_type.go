package domain

import (
	"path/filepath"
	"strings"

	dErrors "docflow/pkg/domain-errors"
)

// DocumentType is the civil record category of a submitted document.
// Invariant: the value must be one of the supported types.
//
// Usage: construct via ParseDocumentType or DocumentTypeFromFilename at trust
// boundaries; direct casting bypasses validation.
type DocumentType string

const (
	DocumentTypeMarriage DocumentType = "marriage"
	DocumentTypeBirth    DocumentType = "birth"
	DocumentTypeDeath    DocumentType = "death"
	DocumentTypeDivorce  DocumentType = "divorce"
)

var validDocumentTypes = map[DocumentType]bool{
	DocumentTypeMarriage: true,
	DocumentTypeBirth:    true,
	DocumentTypeDeath:    true,
	DocumentTypeDivorce:  true,
}

// ParseDocumentType constructs a DocumentType from external input.
func ParseDocumentType(s string) (DocumentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", dErrors.New(dErrors.CodeValidation, "document type cannot be empty")
	}
	t := DocumentType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "invalid document type")
	}
	return t, nil
}

// DocumentTypeFromFilename derives the type from the filename prefix before the
// first underscore, e.g. "Birth_certificate.pdf" -> birth.
func DocumentTypeFromFilename(name string) (DocumentType, error) {
	base := filepath.Base(name)
	prefix, _, _ := strings.Cut(base, "_")
	prefix = strings.TrimSuffix(prefix, filepath.Ext(prefix))
	return ParseDocumentType(prefix)
}

// IsValid checks if the type is one of the supported enum values.
func (t DocumentType) IsValid() bool {
	return validDocumentTypes[t]
}

func (t DocumentType) String() string {
	return string(t)
}
