package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"docflow/internal/translation/models"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/sentinel"
)

// DefaultCollection is the Firestore collection holding translation documents.
const DefaultCollection = "document_translations"

// FirestoreStore persists translation documents in Cloud Firestore.
// ConditionalUpdate runs inside a transaction so the status read and the
// write commit atomically.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore constructs a Firestore-backed document store. The client is
// owned by the caller.
func NewFirestore(client *firestore.Client, collection string) *FirestoreStore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreStore{client: client, collection: collection}
}

// firestoreRecord is the stored shape; field names follow the camelCase
// convention of the existing collection.
type firestoreRecord struct {
	Status               string     `firestore:"status"`
	UserEmail            string     `firestore:"userEmail"`
	UserName             string     `firestore:"userName"`
	DocumentType         string     `firestore:"documentType"`
	UserNotes            string     `firestore:"userNotes"`
	OriginalFilePath     string     `firestore:"originalFilePath"`
	OriginalFilename     string     `firestore:"originalFilename"`
	OriginalFileSize     int64      `firestore:"originalFileSize"`
	OriginalMimeType     string     `firestore:"originalMimeType"`
	PageCount            int        `firestore:"pageCount"`
	TranslatedFilePath   string     `firestore:"translatedFilePath,omitempty"`
	TranslatedFilename   string     `firestore:"translatedFilename,omitempty"`
	TranslatedFileSize   int64      `firestore:"translatedFileSize,omitempty"`
	TranslatedUploadedAt *time.Time `firestore:"translatedUploadedAt,omitempty"`
	RejectionReason      string     `firestore:"rejectionReason,omitempty"`
	UserConfirmedAt      *time.Time `firestore:"userConfirmedAt,omitempty"`
	AdminVerifiedAt      *time.Time `firestore:"adminVerifiedAt,omitempty"`
	AdminNotes           string     `firestore:"adminNotes,omitempty"`
	CreatedAt            time.Time  `firestore:"createdAt"`
	UpdatedAt            time.Time  `firestore:"updatedAt"`
}

func (s *FirestoreStore) ref(docID id.DocumentID) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(docID.String())
}

func (s *FirestoreStore) Insert(ctx context.Context, doc *models.TranslationDocument) error {
	if _, err := s.ref(doc.ID).Create(ctx, toRecord(doc)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return sentinel.ErrAlreadyUsed
		}
		return classifyRPC(err, "insert document")
	}
	return nil
}

func (s *FirestoreStore) FindByID(ctx context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	snap, err := s.ref(docID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, sentinel.ErrNotFound
		}
		return nil, classifyRPC(err, "find document by id")
	}
	return fromSnapshot(snap)
}

func (s *FirestoreStore) ConditionalUpdate(ctx context.Context, docID id.DocumentID, expected models.Status, patch models.Patch) (*models.TranslationDocument, error) {
	ref := s.ref(docID)
	var updated *models.TranslationDocument
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return sentinel.ErrNotFound
			}
			return err
		}
		doc, err := fromSnapshot(snap)
		if err != nil {
			return err
		}
		if doc.Status != expected {
			return &models.StatusMismatchError{Expected: expected, Current: doc.Status}
		}
		doc.Apply(patch)
		updated = doc
		return tx.Set(ref, toRecord(doc))
	})
	if err != nil {
		var mismatch *models.StatusMismatchError
		if errors.Is(err, sentinel.ErrNotFound) || errors.As(err, &mismatch) {
			return nil, err
		}
		return nil, classifyRPC(err, "conditional update document")
	}
	return updated, nil
}

func (s *FirestoreStore) Query(ctx context.Context, filter models.ListFilter) (*models.Page, error) {
	filter.Normalize()

	q := s.client.Collection(s.collection).Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	if filter.UserEmail != "" {
		q = q.Where("userEmail", "==", filter.UserEmail)
	}

	agg, err := q.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return nil, classifyRPC(err, "count documents")
	}
	total, err := countOf(agg, "total")
	if err != nil {
		return nil, err
	}

	snaps, err := q.OrderBy("createdAt", firestore.Desc).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, classifyRPC(err, "query documents")
	}

	page := &models.Page{
		Documents: make([]*models.TranslationDocument, 0, len(snaps)),
		Total:     total,
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
	for _, snap := range snaps {
		doc, err := fromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		page.Documents = append(page.Documents, doc)
	}
	return page, nil
}

func countOf(agg firestore.AggregationResult, alias string) (int, error) {
	raw, ok := agg[alias]
	if !ok {
		return 0, fmt.Errorf("aggregation result missing %q", alias)
	}
	v, ok := raw.(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("unexpected aggregation value type %T", raw)
	}
	return int(v.GetIntegerValue()), nil
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (*models.TranslationDocument, error) {
	var rec firestoreRecord
	if err := snap.DataTo(&rec); err != nil {
		return nil, fmt.Errorf("decode document %s: %w", snap.Ref.ID, err)
	}
	docID, err := id.ParseDocumentID(snap.Ref.ID)
	if err != nil {
		return nil, fmt.Errorf("decode document id %q: %w", snap.Ref.ID, err)
	}
	return &models.TranslationDocument{
		ID:                   docID,
		Status:               models.Status(rec.Status),
		UserEmail:            rec.UserEmail,
		UserName:             rec.UserName,
		DocumentType:         id.DocumentType(rec.DocumentType),
		UserNotes:            rec.UserNotes,
		OriginalFilePath:     rec.OriginalFilePath,
		OriginalFilename:     rec.OriginalFilename,
		OriginalFileSize:     rec.OriginalFileSize,
		OriginalMimeType:     rec.OriginalMimeType,
		PageCount:            rec.PageCount,
		TranslatedFilePath:   rec.TranslatedFilePath,
		TranslatedFilename:   rec.TranslatedFilename,
		TranslatedFileSize:   rec.TranslatedFileSize,
		TranslatedUploadedAt: rec.TranslatedUploadedAt,
		RejectionReason:      rec.RejectionReason,
		UserConfirmedAt:      rec.UserConfirmedAt,
		AdminVerifiedAt:      rec.AdminVerifiedAt,
		AdminNotes:           rec.AdminNotes,
		CreatedAt:            rec.CreatedAt,
		UpdatedAt:            rec.UpdatedAt,
	}, nil
}

func toRecord(doc *models.TranslationDocument) firestoreRecord {
	return firestoreRecord{
		Status:               string(doc.Status),
		UserEmail:            doc.UserEmail,
		UserName:             doc.UserName,
		DocumentType:         string(doc.DocumentType),
		UserNotes:            doc.UserNotes,
		OriginalFilePath:     doc.OriginalFilePath,
		OriginalFilename:     doc.OriginalFilename,
		OriginalFileSize:     doc.OriginalFileSize,
		OriginalMimeType:     doc.OriginalMimeType,
		PageCount:            doc.PageCount,
		TranslatedFilePath:   doc.TranslatedFilePath,
		TranslatedFilename:   doc.TranslatedFilename,
		TranslatedFileSize:   doc.TranslatedFileSize,
		TranslatedUploadedAt: doc.TranslatedUploadedAt,
		RejectionReason:      doc.RejectionReason,
		UserConfirmedAt:      doc.UserConfirmedAt,
		AdminVerifiedAt:      doc.AdminVerifiedAt,
		AdminNotes:           doc.AdminNotes,
		CreatedAt:            doc.CreatedAt,
		UpdatedAt:            doc.UpdatedAt,
	}
}

func classifyRPC(err error, op string) error {
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
