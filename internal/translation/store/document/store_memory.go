package document

import (
	"context"
	"sort"
	"sync"

	"docflow/internal/translation/models"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/sentinel"
)

// InMemory is a process-local document store. The status check and write of
// ConditionalUpdate happen under one lock, which gives the same
// compare-and-set guarantee as the database backends.
type InMemory struct {
	mu   sync.RWMutex
	docs map[id.DocumentID]*models.TranslationDocument
}

func NewInMemory() *InMemory {
	return &InMemory{docs: make(map[id.DocumentID]*models.TranslationDocument)}
}

func (s *InMemory) Insert(_ context.Context, doc *models.TranslationDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, docID id.DocumentID) (*models.TranslationDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return doc.Clone(), nil
}

func (s *InMemory) ConditionalUpdate(_ context.Context, docID id.DocumentID, expected models.Status, patch models.Patch) (*models.TranslationDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if doc.Status != expected {
		return nil, &models.StatusMismatchError{Expected: expected, Current: doc.Status}
	}
	updated := doc.Clone()
	updated.Apply(patch)
	s.docs[docID] = updated
	return updated.Clone(), nil
}

func (s *InMemory) Query(_ context.Context, filter models.ListFilter) (*models.Page, error) {
	filter.Normalize()
	s.mu.RLock()
	matched := make([]*models.TranslationDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		if filter.Matches(doc) {
			matched = append(matched, doc.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.String() > matched[j].ID.String()
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := &models.Page{
		Documents: []*models.TranslationDocument{},
		Total:     len(matched),
		Limit:     filter.Limit,
		Offset:    filter.Offset,
	}
	if filter.Offset >= len(matched) {
		return page, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Documents = matched[filter.Offset:end]
	return page, nil
}
