package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docflow/internal/translation/events"
	"docflow/internal/translation/metrics"
	"docflow/internal/translation/models"
	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/platform/sentinel"
	"docflow/pkg/requestcontext"
)

// DocumentStore persists translation documents. ConditionalUpdate applies
// patch only while the stored status equals expected and returns a
// *models.StatusMismatchError otherwise.
type DocumentStore interface {
	Insert(ctx context.Context, doc *models.TranslationDocument) error
	FindByID(ctx context.Context, id id.DocumentID) (*models.TranslationDocument, error)
	ConditionalUpdate(ctx context.Context, id id.DocumentID, expected models.Status, patch models.Patch) (*models.TranslationDocument, error)
	Query(ctx context.Context, filter models.ListFilter) (*models.Page, error)
}

// Workflow enforces the legal transitions of translation documents. Every
// transition is one read followed by one conditional write, so concurrent
// callers racing on the same document see exactly one winner.
type Workflow struct {
	store     DocumentStore
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	now       func(ctx context.Context) time.Time
}

type WorkflowOption func(*Workflow)

func WithLogger(logger *slog.Logger) WorkflowOption {
	return func(w *Workflow) {
		w.logger = logger
	}
}

func WithPublisher(p events.Publisher) WorkflowOption {
	return func(w *Workflow) {
		w.publisher = p
	}
}

func WithMetrics(m *metrics.Metrics) WorkflowOption {
	return func(w *Workflow) {
		w.metrics = m
	}
}

func WithTracer(t trace.Tracer) WorkflowOption {
	return func(w *Workflow) {
		w.tracer = t
	}
}

// WithClock overrides the time source. Defaults to requestcontext.Now.
func WithClock(now func(ctx context.Context) time.Time) WorkflowOption {
	return func(w *Workflow) {
		w.now = now
	}
}

func NewWorkflow(store DocumentStore, opts ...WorkflowOption) *Workflow {
	w := &Workflow{
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer("docflow/translation"),
		now:    requestcontext.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register inserts a new PENDING document built from p.
func (w *Workflow) Register(ctx context.Context, p models.NewDocumentParams) (*models.TranslationDocument, error) {
	ctx, span := w.tracer.Start(ctx, "translation.register")
	defer span.End()

	doc, err := models.NewTranslationDocument(p, w.now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := w.store.Insert(ctx, doc); err != nil {
		span.RecordError(err)
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "document already exists")
		}
		return nil, storeError(err, "failed to create document")
	}

	w.metrics.IncrementSubmission()
	w.logger.InfoContext(ctx, "translation submitted",
		"document_id", doc.ID.String(),
		"document_type", doc.DocumentType.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	w.publish(ctx, events.TransitionEvent{
		DocumentID: doc.ID.String(),
		Operation:  "submit",
		To:         doc.Status,
		UserEmail:  doc.UserEmail,
		OccurredAt: doc.CreatedAt,
	})
	return doc, nil
}

// Apply runs one workflow operation: validate input, read the document,
// check the pre-state and artifacts, then commit with a conditional update
// on the status that was read.
func (w *Workflow) Apply(ctx context.Context, op models.Operation) (*models.Result, error) {
	start := time.Now()
	kind := op.Kind()
	ctx, span := w.tracer.Start(ctx, "translation."+string(kind),
		trace.WithAttributes(attribute.String("document.id", op.Document().String())))
	defer span.End()
	defer w.metrics.ObserveOperation(string(kind), start)

	result, err := w.apply(ctx, op)
	if err != nil {
		code := dErrors.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		w.metrics.IncrementRejected(string(kind), string(code))
		w.logRejected(ctx, op, code, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("status.from", result.From.String()),
		attribute.String("status.to", result.Document.Status.String()),
	)
	w.metrics.IncrementTransition(string(kind), result.Document.Status.String())
	w.logger.InfoContext(ctx, "translation transitioned",
		"document_id", result.Document.ID.String(),
		"operation", string(kind),
		"from", result.From.String(),
		"to", result.Document.Status.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	w.publish(ctx, events.TransitionEvent{
		DocumentID: result.Document.ID.String(),
		Operation:  string(kind),
		From:       result.From,
		To:         result.Document.Status,
		UserEmail:  result.Document.UserEmail,
		Reason:     rejectionReasonOf(op, result.Document),
		OccurredAt: result.Document.UpdatedAt,
	})
	return result, nil
}

func (w *Workflow) apply(ctx context.Context, op models.Operation) (*models.Result, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	doc, err := w.store.FindByID(ctx, op.Document())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, storeError(err, "failed to load document")
	}

	kind := op.Kind()
	if !kind.Allows(doc.Status) {
		return nil, kind.InvalidStateError(doc.Status)
	}
	if err := checkArtifacts(op, doc); err != nil {
		return nil, err
	}

	updated, err := w.store.ConditionalUpdate(ctx, doc.ID, doc.Status, models.PatchFor(op, w.now(ctx)))
	if err != nil {
		var mismatch *models.StatusMismatchError
		switch {
		case errors.As(err, &mismatch):
			return nil, kind.InvalidStateError(mismatch.Current)
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		default:
			return nil, storeError(err, "failed to update document")
		}
	}
	return &models.Result{Kind: kind, From: doc.Status, Document: updated}, nil
}

// checkArtifacts enforces that a document never reaches USER_CONFIRMED or
// VERIFIED without a translated file.
func checkArtifacts(op models.Operation, doc *models.TranslationDocument) error {
	switch op.(type) {
	case models.AdminUploadOp, models.RequestChangesOp:
		return nil
	case models.ConfirmOp, models.VerifyOp:
		if !doc.HasTranslation() {
			return dErrors.New(dErrors.CodeMissingArtifact, "translated file not available")
		}
		return nil
	default:
		return dErrors.Newf(dErrors.CodeInternal, "unsupported operation %T", op)
	}
}

// AdminUpload records a translated file for a PENDING or CHANGES_REQUESTED document.
func (w *Workflow) AdminUpload(ctx context.Context, op models.AdminUploadOp) (*models.TranslationDocument, error) {
	return documentOf(w.Apply(ctx, op))
}

// Confirm accepts the translation on behalf of the requester.
func (w *Workflow) Confirm(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	return documentOf(w.Apply(ctx, models.ConfirmOp{ID: docID}))
}

// RequestChanges rejects the translation with a reason.
func (w *Workflow) RequestChanges(ctx context.Context, docID id.DocumentID, reason string) (*models.TranslationDocument, error) {
	return documentOf(w.Apply(ctx, models.RequestChangesOp{ID: docID, Reason: reason}))
}

// Verify certifies a confirmed translation.
func (w *Workflow) Verify(ctx context.Context, docID id.DocumentID, notes string) (*models.TranslationDocument, error) {
	return documentOf(w.Apply(ctx, models.VerifyOp{ID: docID, Notes: notes}))
}

// Get returns the current state of a document.
func (w *Workflow) Get(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	doc, err := w.store.FindByID(ctx, docID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, storeError(err, "failed to load document")
	}
	return doc, nil
}

// List returns one page of documents, newest first.
func (w *Workflow) List(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid status %q", filter.Status)
	}
	filter.Normalize()
	page, err := w.store.Query(ctx, filter)
	if err != nil {
		return nil, storeError(err, "failed to list documents")
	}
	return page, nil
}

func documentOf(res *models.Result, err error) (*models.TranslationDocument, error) {
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

func rejectionReasonOf(op models.Operation, doc *models.TranslationDocument) string {
	if _, ok := op.(models.RequestChangesOp); ok {
		return doc.RejectionReason
	}
	return ""
}

// storeError translates infrastructure failures into domain errors.
func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "document store unavailable")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (w *Workflow) publish(ctx context.Context, event events.TransitionEvent) {
	if w.publisher == nil {
		return
	}
	event.Actor = requestcontext.UserEmail(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	if err := w.publisher.Publish(ctx, event); err != nil {
		w.metrics.IncrementEventPublishFailed()
		w.logger.WarnContext(ctx, "failed to publish transition event",
			"document_id", event.DocumentID,
			"operation", event.Operation,
			"request_id", event.RequestID,
			"error", err,
		)
	}
}

func (w *Workflow) logRejected(ctx context.Context, op models.Operation, code dErrors.Code, err error) {
	attrs := []any{
		"document_id", op.Document().String(),
		"operation", string(op.Kind()),
		"code", string(code),
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	switch code {
	case dErrors.CodeMissingArtifact, dErrors.CodeInternal, dErrors.CodeUnavailable:
		w.logger.ErrorContext(ctx, "translation operation failed", attrs...)
	default:
		w.logger.WarnContext(ctx, "translation operation rejected", attrs...)
	}
}
