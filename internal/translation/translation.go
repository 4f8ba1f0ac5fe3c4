// Package translation is the document translation workflow: requesters submit
// certificates, admins upload translations, requesters confirm or ask for
// changes, admins verify.
package translation

import (
	"log/slog"

	"docflow/internal/translation/handler"
	"docflow/internal/translation/service"
)

// Workflow is the status state machine over the document store.
type Workflow = service.Workflow

// Service exposes caller-scoped translation operations.
type Service = service.Service

// Handler wires HTTP endpoints to the translation service.
type Handler = handler.Handler

// NewWorkflow constructs the state machine over store.
func NewWorkflow(store service.DocumentStore, opts ...service.WorkflowOption) *Workflow {
	return service.NewWorkflow(store, opts...)
}

// NewService constructs the translation service with required dependencies.
func NewService(workflow *Workflow, objects service.ObjectStore, inspector service.PDFInspector, opts ...service.Option) *Service {
	return service.New(workflow, objects, inspector, opts...)
}

// NewHandler constructs the HTTP handler for requester and admin routes.
func NewHandler(s *Service, logger *slog.Logger, maxUploadSize int64) *Handler {
	return handler.New(s, logger, maxUploadSize)
}
