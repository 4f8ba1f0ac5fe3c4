package document

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"docflow/internal/translation/models"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/sentinel"
)

const documentColumns = `
	id, status, user_email, user_name, document_type, user_notes,
	original_file_path, original_filename, original_file_size, original_mime_type, page_count,
	translated_file_path, translated_filename, translated_file_size, translated_uploaded_at,
	rejection_reason, user_confirmed_at, admin_verified_at, admin_notes,
	created_at, updated_at`

// PostgresStore persists translation documents in PostgreSQL. The schema is
// owned by the migrations in internal/platform/postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed document store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, doc *models.TranslationDocument) error {
	query := `
		INSERT INTO translation_documents (
			id, status, user_email, user_name, document_type, user_notes,
			original_file_path, original_filename, original_file_size, original_mime_type, page_count,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(doc.ID), string(doc.Status), doc.UserEmail, doc.UserName, string(doc.DocumentType), doc.UserNotes,
		doc.OriginalFilePath, doc.OriginalFilename, doc.OriginalFileSize, doc.OriginalMimeType, doc.PageCount,
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return classify(err, "insert document")
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM translation_documents WHERE id = $1`
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query, uuid.UUID(docID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, classify(err, "find document by id")
	}
	return doc, nil
}

// ConditionalUpdate writes patch in a single statement guarded by the
// expected status. Timestamps that are already set are never overwritten.
func (s *PostgresStore) ConditionalUpdate(ctx context.Context, docID id.DocumentID, expected models.Status, patch models.Patch) (*models.TranslationDocument, error) {
	query := `
		UPDATE translation_documents SET
			status = $3,
			translated_file_path = COALESCE($4, translated_file_path),
			translated_filename = COALESCE($5, translated_filename),
			translated_file_size = COALESCE($6, translated_file_size),
			translated_uploaded_at = COALESCE($7, translated_uploaded_at),
			rejection_reason = COALESCE($8, rejection_reason),
			user_confirmed_at = COALESCE(user_confirmed_at, $9),
			admin_verified_at = COALESCE(admin_verified_at, $10),
			admin_notes = COALESCE($11, admin_notes),
			updated_at = $12
		WHERE id = $1 AND status = $2
		RETURNING ` + documentColumns
	doc, err := scanDocument(s.db.QueryRowContext(ctx, query,
		uuid.UUID(docID), string(expected), string(patch.Status),
		nullString(patch.TranslatedFilePath),
		nullString(patch.TranslatedFilename),
		nullInt64(patch.TranslatedFileSize),
		nullTime(patch.TranslatedUploadedAt),
		nullString(patch.RejectionReason),
		nullTime(patch.UserConfirmedAt),
		nullTime(patch.AdminVerifiedAt),
		nullString(patch.AdminNotes),
		patch.UpdatedAt,
	))
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, classify(err, "conditional update document")
	}

	// No row matched: distinguish a missing document from a status race.
	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM translation_documents WHERE id = $1`, uuid.UUID(docID)).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, classify(err, "read document status")
	}
	return nil, &models.StatusMismatchError{Expected: expected, Current: models.Status(current)}
}

func (s *PostgresStore) Query(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	filter.Normalize()

	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.UserEmail != "" {
		args = append(args, filter.UserEmail)
		conds = append(conds, fmt.Sprintf("user_email = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translation_documents`+where, args...).Scan(&total); err != nil {
		return nil, classify(err, "count documents")
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM translation_documents%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		documentColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, classify(err, "query documents")
	}
	defer rows.Close()

	page := &models.Page{
		Documents: []*models.TranslationDocument{},
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		page.Documents = append(page.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate documents")
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.TranslationDocument, error) {
	var (
		docID                uuid.UUID
		status, docType      string
		translatedPath       sql.NullString
		translatedName       sql.NullString
		translatedSize       sql.NullInt64
		translatedUploadedAt sql.NullTime
		rejectionReason      sql.NullString
		userConfirmedAt      sql.NullTime
		adminVerifiedAt      sql.NullTime
		adminNotes           sql.NullString
		doc                  models.TranslationDocument
	)
	err := row.Scan(
		&docID, &status, &doc.UserEmail, &doc.UserName, &docType, &doc.UserNotes,
		&doc.OriginalFilePath, &doc.OriginalFilename, &doc.OriginalFileSize, &doc.OriginalMimeType, &doc.PageCount,
		&translatedPath, &translatedName, &translatedSize, &translatedUploadedAt,
		&rejectionReason, &userConfirmedAt, &adminVerifiedAt, &adminNotes,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.ID = id.DocumentID(docID)
	doc.Status = models.Status(status)
	doc.DocumentType = id.DocumentType(docType)
	doc.TranslatedFilePath = translatedPath.String
	doc.TranslatedFilename = translatedName.String
	doc.TranslatedFileSize = translatedSize.Int64
	doc.TranslatedUploadedAt = timePtr(translatedUploadedAt)
	doc.RejectionReason = rejectionReason.String
	doc.UserConfirmedAt = timePtr(userConfirmedAt)
	doc.AdminVerifiedAt = timePtr(adminVerifiedAt)
	doc.AdminNotes = adminNotes.String
	return &doc, nil
}

// classify marks connectivity failures with sentinel.ErrUnavailable so the
// service can answer 503 instead of 500.
func classify(err error, op string) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt64(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
