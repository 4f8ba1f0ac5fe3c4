package models

import (
	"strings"
	"time"

	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
)

// OperationKind names one of the workflow's transition operations.
type OperationKind string

const (
	OpAdminUpload    OperationKind = "admin_upload"
	OpConfirm        OperationKind = "confirm"
	OpRequestChanges OperationKind = "request_changes"
	OpVerify         OperationKind = "verify"
)

// rule is the pre-state set and post-state of one operation.
type rule struct {
	from []Status
	to   Status
	verb string
}

var rules = map[OperationKind]rule{
	OpAdminUpload:    {from: []Status{StatusPending, StatusChangesRequested}, to: StatusTranslated, verb: "upload translation"},
	OpConfirm:        {from: []Status{StatusTranslated}, to: StatusUserConfirmed, verb: "confirm"},
	OpRequestChanges: {from: []Status{StatusTranslated}, to: StatusChangesRequested, verb: "request changes"},
	OpVerify:         {from: []Status{StatusUserConfirmed}, to: StatusVerified, verb: "verify"},
}

// RequiredStatuses returns the statuses from which kind may run.
func (k OperationKind) RequiredStatuses() []Status {
	return rules[k].from
}

// TargetStatus returns the status kind transitions to.
func (k OperationKind) TargetStatus() Status {
	return rules[k].to
}

// Allows reports whether kind may run from current.
func (k OperationKind) Allows(current Status) bool {
	for _, s := range rules[k].from {
		if s == current {
			return current.CanTransitionTo(rules[k].to)
		}
	}
	return false
}

// InvalidStateError builds the caller-facing error naming the current status
// and the status(es) the operation requires.
func (k OperationKind) InvalidStateError(current Status) error {
	required := make([]string, 0, len(rules[k].from))
	for _, s := range rules[k].from {
		required = append(required, string(s))
	}
	return dErrors.Newf(dErrors.CodeInvalidState,
		"cannot %s: current status %s, must be %s",
		rules[k].verb, current, strings.Join(required, " or "))
}

// Operation is the closed set of workflow transitions. Only types in this
// package implement it.
type Operation interface {
	Kind() OperationKind
	Document() id.DocumentID
	// Validate checks input that does not depend on stored state.
	Validate() error
	// patch builds the write applied when the transition is accepted.
	patch(now time.Time) Patch
}

// AdminUploadOp records a (re-)uploaded translation.
type AdminUploadOp struct {
	ID       id.DocumentID
	FilePath string
	Filename string
	FileSize int64
}

// ConfirmOp is the requester accepting the translation.
type ConfirmOp struct {
	ID id.DocumentID
}

// RequestChangesOp is the requester rejecting the translation with a reason.
type RequestChangesOp struct {
	ID     id.DocumentID
	Reason string
}

// VerifyOp is the admin certifying a confirmed translation.
type VerifyOp struct {
	ID    id.DocumentID
	Notes string
}

func (AdminUploadOp) Kind() OperationKind    { return OpAdminUpload }
func (ConfirmOp) Kind() OperationKind        { return OpConfirm }
func (RequestChangesOp) Kind() OperationKind { return OpRequestChanges }
func (VerifyOp) Kind() OperationKind         { return OpVerify }

func (o AdminUploadOp) Document() id.DocumentID    { return o.ID }
func (o ConfirmOp) Document() id.DocumentID        { return o.ID }
func (o RequestChangesOp) Document() id.DocumentID { return o.ID }
func (o VerifyOp) Document() id.DocumentID         { return o.ID }

func (o AdminUploadOp) Validate() error {
	if o.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "document id is required")
	}
	if strings.TrimSpace(o.FilePath) == "" {
		return dErrors.New(dErrors.CodeValidation, "translated file path is required")
	}
	return nil
}

func (o ConfirmOp) Validate() error {
	if o.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "document id is required")
	}
	return nil
}

func (o RequestChangesOp) Validate() error {
	if o.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "document id is required")
	}
	if strings.TrimSpace(o.Reason) == "" {
		return dErrors.New(dErrors.CodeValidation, "please provide a reason for requesting changes")
	}
	return nil
}

func (o VerifyOp) Validate() error {
	if o.ID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "document id is required")
	}
	return nil
}

func (o AdminUploadOp) patch(now time.Time) Patch {
	p := Patch{
		Status:               StatusTranslated,
		TranslatedFilePath:   &o.FilePath,
		TranslatedUploadedAt: &now,
		UpdatedAt:            now,
	}
	if o.Filename != "" {
		p.TranslatedFilename = &o.Filename
	}
	if o.FileSize > 0 {
		p.TranslatedFileSize = &o.FileSize
	}
	return p
}

func (o ConfirmOp) patch(now time.Time) Patch {
	return Patch{Status: StatusUserConfirmed, UserConfirmedAt: &now, UpdatedAt: now}
}

func (o RequestChangesOp) patch(now time.Time) Patch {
	reason := strings.TrimSpace(o.Reason)
	return Patch{Status: StatusChangesRequested, RejectionReason: &reason, UpdatedAt: now}
}

func (o VerifyOp) patch(now time.Time) Patch {
	return Patch{Status: StatusVerified, AdminVerifiedAt: &now, AdminNotes: &o.Notes, UpdatedAt: now}
}

// PatchFor returns the write op produces at now.
func PatchFor(op Operation, now time.Time) Patch {
	return op.patch(now)
}

// Result is the outcome of an accepted transition.
type Result struct {
	Kind     OperationKind
	From     Status
	Document *TranslationDocument
}
