package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"docflow/internal/translation/models"
	"docflow/internal/translation/pdf"
	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/platform/sentinel"
	"docflow/pkg/requestcontext"
)

const (
	originalsPrefix  = "translation-originals"
	translatedPrefix = "translation-translated"

	// DefaultSignedURLTTL is how long download links stay valid.
	DefaultSignedURLTTL = time.Hour
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ObjectStore holds the original and translated files.
type ObjectStore interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// PDFInspector validates uploaded files.
type PDFInspector interface {
	Inspect(data []byte) (pdf.Info, error)
}

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SubmitRequest is a requester's intake of a document for translation.
type SubmitRequest struct {
	File      Upload
	UserName  string
	UserNotes string
}

// Service is the caller-facing API of the translation workflow. It scopes
// every call to the authenticated caller, moves files in and out of the
// object store, and delegates state changes to the Workflow.
type Service struct {
	workflow        *Workflow
	objects         ObjectStore
	inspector       PDFInspector
	urlTTL          time.Duration
	signConcurrency int
}

type Option func(*Service)

// WithSignedURLTTL sets the lifetime of download links.
func WithSignedURLTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.urlTTL = ttl
		}
	}
}

// WithSigningConcurrency bounds parallel link signing for list pages.
func WithSigningConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.signConcurrency = n
		}
	}
}

func New(workflow *Workflow, objects ObjectStore, inspector PDFInspector, opts ...Option) *Service {
	s := &Service{
		workflow:        workflow,
		objects:         objects,
		inspector:       inspector,
		urlTTL:          DefaultSignedURLTTL,
		signConcurrency: 8,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores the original file and registers a PENDING document owned by
// the caller. The stored file is removed again if registration fails.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.TranslationDocument, error) {
	email, _, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "missing required fields: file, userName")
	}
	docType, err := id.DocumentTypeFromFilename(req.File.Filename)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid document type")
	}
	info, err := s.checkFile(req.File)
	if err != nil {
		return nil, err
	}

	docID := id.NewDocumentID()
	storedName := originalStoredName(req.File.Filename, userName)
	path := fmt.Sprintf("%s/%s/%d_%s", originalsPrefix, docID, requestcontext.Now(ctx).UnixMilli(), storedName)
	if err := s.put(ctx, path, req.File); err != nil {
		return nil, err
	}

	doc, err := s.workflow.Register(ctx, models.NewDocumentParams{
		ID:               docID,
		UserEmail:        email,
		UserName:         userName,
		DocumentType:     docType,
		UserNotes:        strings.TrimSpace(req.UserNotes),
		OriginalFilePath: path,
		OriginalFilename: storedName,
		OriginalFileSize: int64(len(req.File.Data)),
		OriginalMimeType: req.File.ContentType,
		PageCount:        info.PageCount,
	})
	if err != nil {
		s.discard(ctx, path)
		return nil, err
	}
	return doc, nil
}

// UploadTranslation stores a translated file and moves the document to
// TRANSLATED. On failure the new file is removed; on success the file it
// replaces is removed.
func (s *Service) UploadTranslation(ctx context.Context, docID id.DocumentID, file Upload) (*models.TranslationDocument, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if _, err := s.checkFile(file); err != nil {
		return nil, err
	}
	current, err := s.workflow.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !models.OpAdminUpload.Allows(current.Status) {
		return nil, models.OpAdminUpload.InvalidStateError(current.Status)
	}

	path := fmt.Sprintf("%s/%s/%d_%s", translatedPrefix, docID, requestcontext.Now(ctx).UnixMilli(), sanitizeFilename(file.Filename))
	if err := s.put(ctx, path, file); err != nil {
		return nil, err
	}

	doc, err := s.workflow.AdminUpload(ctx, models.AdminUploadOp{
		ID:       docID,
		FilePath: path,
		Filename: filepath.Base(file.Filename),
		FileSize: int64(len(file.Data)),
	})
	if err != nil {
		s.discard(ctx, path)
		return nil, err
	}
	if previous := current.TranslatedFilePath; previous != "" && previous != path {
		s.discard(ctx, previous)
	}
	return doc, nil
}

// Confirm accepts the translation. Only the requester or an admin may confirm.
func (s *Service) Confirm(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	if err := s.authorizeOwner(ctx, docID); err != nil {
		return nil, err
	}
	return s.workflow.Confirm(ctx, docID)
}

// RequestChanges rejects the translation with a reason.
func (s *Service) RequestChanges(ctx context.Context, docID id.DocumentID, reason string) (*models.TranslationDocument, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "please provide a reason for requesting changes")
	}
	if err := s.authorizeOwner(ctx, docID); err != nil {
		return nil, err
	}
	return s.workflow.RequestChanges(ctx, docID, reason)
}

// Verify certifies a confirmed translation. Admin only.
func (s *Service) Verify(ctx context.Context, docID id.DocumentID, notes string) (*models.TranslationDocument, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.workflow.Verify(ctx, docID, strings.TrimSpace(notes))
}

// Get returns a document with download links.
func (s *Service) Get(ctx context.Context, docID id.DocumentID) (*models.DocumentWithLinks, error) {
	email, role, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := s.workflow.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if !role.IsAdmin() && !doc.OwnedBy(email) {
		return nil, dErrors.New(dErrors.CodeForbidden, "document belongs to another user")
	}
	views := s.withLinks(ctx, []*models.TranslationDocument{doc})
	return &views[0], nil
}

// ListOwn lists the caller's documents.
func (s *Service) ListOwn(ctx context.Context, filter models.ListFilter) (*models.PageWithLinks, error) {
	email, _, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	filter.UserEmail = email
	return s.list(ctx, filter)
}

// ListAll lists documents across requesters. Admin only.
func (s *Service) ListAll(ctx context.Context, filter models.ListFilter) (*models.PageWithLinks, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

func (s *Service) list(ctx context.Context, filter models.ListFilter) (*models.PageWithLinks, error) {
	page, err := s.workflow.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.PageWithLinks{
		Documents: s.withLinks(ctx, page.Documents),
		Total:     page.Total,
		Limit:     page.Limit,
		Offset:    page.Offset,
	}, nil
}

// withLinks signs download links concurrently. Signing failures leave the
// link nil; they never fail the read.
func (s *Service) withLinks(ctx context.Context, docs []*models.TranslationDocument) []models.DocumentWithLinks {
	views := make([]models.DocumentWithLinks, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.signConcurrency)
	for i, doc := range docs {
		i, doc := i, doc
		views[i].TranslationDocument = doc
		g.Go(func() error {
			views[i].OriginalFileURL = s.sign(gctx, doc.OriginalFilePath)
			views[i].TranslatedFileURL = s.sign(gctx, doc.TranslatedFilePath)
			return nil
		})
	}
	_ = g.Wait()
	return views
}

func (s *Service) sign(ctx context.Context, path string) *string {
	if path == "" {
		return nil
	}
	u, err := s.objects.SignedURL(ctx, path, s.urlTTL)
	if err != nil {
		s.workflow.metrics.IncrementSignedURLFailed()
		s.workflow.logger.WarnContext(ctx, "failed to sign download url",
			"path", path,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil
	}
	return &u
}

func (s *Service) checkFile(file Upload) (pdf.Info, error) {
	if len(file.Data) == 0 {
		return pdf.Info{}, dErrors.New(dErrors.CodeValidation, "no file provided")
	}
	if !strings.Contains(strings.ToLower(file.ContentType), "pdf") {
		return pdf.Info{}, dErrors.New(dErrors.CodeValidation, "only PDF files are allowed")
	}
	return s.inspector.Inspect(file.Data)
}

func (s *Service) put(ctx context.Context, path string, file Upload) error {
	err := s.objects.Put(ctx, path, bytes.NewReader(file.Data), int64(len(file.Data)), file.ContentType)
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, "file already exists")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "object store unavailable")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to upload file to storage")
	}
}

// discard removes an object whose owning write did not commit, or that a
// newer upload replaced. Failures leave an orphan and are only logged.
func (s *Service) discard(ctx context.Context, path string) {
	if err := s.objects.Remove(ctx, path); err != nil {
		s.workflow.logger.WarnContext(ctx, "failed to remove stored file",
			"path", path,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}

func (s *Service) authorizeOwner(ctx context.Context, docID id.DocumentID) error {
	email, role, err := caller(ctx)
	if err != nil {
		return err
	}
	if role.IsAdmin() {
		return nil
	}
	doc, err := s.workflow.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !doc.OwnedBy(email) {
		return dErrors.New(dErrors.CodeForbidden, "document belongs to another user")
	}
	return nil
}

func caller(ctx context.Context) (string, requestcontext.Role, error) {
	email := requestcontext.UserEmail(ctx)
	if email == "" {
		return "", "", dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return email, requestcontext.CallerRole(ctx), nil
}

func requireAdmin(ctx context.Context) error {
	_, role, err := caller(ctx)
	if err != nil {
		return err
	}
	if !role.IsAdmin() {
		return dErrors.New(dErrors.CodeForbidden, "admin role required")
	}
	return nil
}

// originalStoredName is "<name before first dot>_<userName>.pdf", sanitized
// for use in an object path.
func originalStoredName(filename, userName string) string {
	base, _, _ := strings.Cut(filepath.Base(filename), ".")
	return sanitizeFilename(base + "_" + userName + ".pdf")
}

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(filepath.Base(name), "_")
}
