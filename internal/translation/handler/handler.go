package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"docflow/internal/translation/models"
	"docflow/internal/translation/pdf"
	"docflow/internal/translation/service"
	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/platform/httputil"
	"docflow/pkg/requestcontext"
)

// multipartOverhead leaves room for form fields and part headers on top of
// the file itself.
const multipartOverhead = 1 << 20

// Service defines the translation operations exposed over HTTP.
type Service interface {
	Submit(ctx context.Context, req service.SubmitRequest) (*models.TranslationDocument, error)
	UploadTranslation(ctx context.Context, docID id.DocumentID, file service.Upload) (*models.TranslationDocument, error)
	Confirm(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error)
	RequestChanges(ctx context.Context, docID id.DocumentID, reason string) (*models.TranslationDocument, error)
	Verify(ctx context.Context, docID id.DocumentID, notes string) (*models.TranslationDocument, error)
	Get(ctx context.Context, docID id.DocumentID) (*models.DocumentWithLinks, error)
	ListOwn(ctx context.Context, filter models.ListFilter) (*models.PageWithLinks, error)
	ListAll(ctx context.Context, filter models.ListFilter) (*models.PageWithLinks, error)
}

// Handler wires translation endpoints to the translation service.
type Handler struct {
	service       Service
	logger        *slog.Logger
	maxUploadSize int64
}

// New constructs a translation handler. maxUploadSize bounds the file part of
// multipart uploads; zero uses pdf.MaxFileSize.
func New(service Service, logger *slog.Logger, maxUploadSize int64) *Handler {
	if maxUploadSize <= 0 {
		maxUploadSize = pdf.MaxFileSize
	}
	return &Handler{
		service:       service,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Register mounts requester endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/translations", h.HandleSubmit)
	r.Get("/translations", h.HandleListOwn)
	r.Get("/translations/{id}", h.HandleGet)
	r.Post("/translations/{id}/confirm", h.HandleConfirm)
	r.Post("/translations/{id}/request-changes", h.HandleRequestChanges)
}

// RegisterAdmin mounts admin endpoints on the router. Callers are expected to
// guard the router with an admin check; the service enforces it as well.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/translations", h.HandleListAll)
	r.Post("/admin/translations/{id}/upload", h.HandleUploadTranslation)
	r.Post("/admin/translations/{id}/verify", h.HandleVerify)
}

// HandleSubmit handles POST /translations.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Submit(ctx, service.SubmitRequest{
		File:      file,
		UserName:  r.FormValue("userName"),
		UserNotes: r.FormValue("userNotes"),
	})
	if err != nil {
		h.logFailure(ctx, "submit failed", err, "filename", file.Filename)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "translation submitted",
		"request_id", requestID,
		"document_id", doc.ID,
		"document_type", doc.DocumentType,
	)
	httputil.WriteJSON(w, http.StatusCreated, &SubmitResponse{
		Success:    true,
		DocumentID: doc.ID.String(),
		Status:     string(doc.Status),
		Message:    "document submitted for translation",
	})
}

// HandleUploadTranslation handles POST /admin/translations/{id}/upload.
func (h *Handler) HandleUploadTranslation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := h.documentID(w, r)
	if !ok {
		return
	}
	file, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	doc, err := h.service.UploadTranslation(ctx, docID, file)
	if err != nil {
		h.logFailure(ctx, "translation upload failed", err, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &UploadResponse{
		Status:             string(doc.Status),
		TranslatedFilePath: doc.TranslatedFilePath,
	})
}

// HandleConfirm handles POST /translations/{id}/confirm.
func (h *Handler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := h.documentID(w, r)
	if !ok {
		return
	}
	doc, err := h.service.Confirm(ctx, docID)
	if err != nil {
		h.logFailure(ctx, "confirm failed", err, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &ConfirmResponse{
		Status:      string(doc.Status),
		ConfirmedAt: doc.UserConfirmedAt,
	})
}

// HandleRequestChanges handles POST /translations/{id}/request-changes.
func (h *Handler) HandleRequestChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	docID, ok := h.documentID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RequestChangesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	doc, err := h.service.RequestChanges(ctx, docID, req.Reason)
	if err != nil {
		h.logFailure(ctx, "request changes failed", err, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &RequestChangesResponse{
		Status:          string(doc.Status),
		RejectionReason: doc.RejectionReason,
	})
}

// HandleVerify handles POST /admin/translations/{id}/verify. The body is
// optional.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	docID, ok := h.documentID(w, r)
	if !ok {
		return
	}
	var notes string
	if r.ContentLength != 0 {
		req, ok := httputil.DecodeAndPrepare[VerifyRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}
		notes = req.Notes
	}
	doc, err := h.service.Verify(ctx, docID, notes)
	if err != nil {
		h.logFailure(ctx, "verify failed", err, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &VerifyResponse{
		Status:     string(doc.Status),
		VerifiedAt: doc.AdminVerifiedAt,
		Notes:      doc.AdminNotes,
	})
}

// HandleGet handles GET /translations/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docID, ok := h.documentID(w, r)
	if !ok {
		return
	}
	view, err := h.service.Get(ctx, docID)
	if err != nil {
		h.logFailure(ctx, "get failed", err, "document_id", docID)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

// HandleListOwn handles GET /translations.
func (h *Handler) HandleListOwn(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.ListOwn)
}

// HandleListAll handles GET /admin/translations.
func (h *Handler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.service.ListAll)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request, list func(context.Context, models.ListFilter) (*models.PageWithLinks, error)) {
	ctx := r.Context()
	filter, err := parseListFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	page, err := list(ctx, filter)
	if err != nil {
		h.logFailure(ctx, "list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) documentID(w http.ResponseWriter, r *http.Request) (id.DocumentID, bool) {
	docID, err := id.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "invalid document id"))
		return id.DocumentID{}, false
	}
	return docID, true
}

// readUpload parses the multipart form and reads its "file" part.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (service.Upload, bool) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file too large"))
			return service.Upload{}, false
		}
		h.logger.WarnContext(ctx, "invalid multipart form",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return service.Upload{}, false
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "no file provided"))
		return service.Upload{}, false
	}
	defer part.Close()

	if header.Size > h.maxUploadSize {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "file too large"))
		return service.Upload{}, false
	}
	data, err := io.ReadAll(io.LimitReader(part, h.maxUploadSize+1))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read file"))
		return service.Upload{}, false
	}
	return service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, true
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error, attrs ...any) {
	attrs = append(attrs,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeMissingArtifact, dErrors.CodeUnavailable:
		h.logger.ErrorContext(ctx, msg, attrs...)
	default:
		h.logger.WarnContext(ctx, msg, attrs...)
	}
}

func parseListFilter(r *http.Request) (models.ListFilter, error) {
	q := r.URL.Query()
	filter := models.ListFilter{UserEmail: q.Get("userEmail")}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			return filter, dErrors.New(dErrors.CodeValidation, "invalid status filter")
		}
		filter.Status = status
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit"), "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = intParam(q.Get("offset"), "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a non-negative integer")
	}
	return n, nil
}
