package document

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"docflow/internal/translation/models"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/sentinel"
)

type DocumentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	base  time.Time
}

func (s *DocumentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.base = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
}

func TestDocumentStoreSuite(t *testing.T) {
	suite.Run(t, new(DocumentStoreSuite))
}

func (s *DocumentStoreSuite) newDocument(email string, createdAt time.Time) *models.TranslationDocument {
	doc, err := models.NewTranslationDocument(models.NewDocumentParams{
		ID:               id.NewDocumentID(),
		UserEmail:        email,
		UserName:         "Ana",
		DocumentType:     id.DocumentTypeBirth,
		OriginalFilePath: "translation-originals/x/birth.pdf",
	}, createdAt)
	s.Require().NoError(err)
	return doc
}

func (s *DocumentStoreSuite) TestInsertAndFind() {
	s.Run("finds inserted document", func() {
		doc := s.newDocument("ana@example.com", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, doc))

		found, err := s.store.FindByID(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(doc.UserEmail, found.UserEmail)
		s.Equal(models.StatusPending, found.Status)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewDocumentID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate ID", func() {
		doc := s.newDocument("ana@example.com", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, doc))
		s.Require().ErrorIs(s.store.Insert(s.ctx, doc), sentinel.ErrAlreadyUsed)
	})

	s.Run("returned documents are copies", func() {
		doc := s.newDocument("ana@example.com", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, doc))

		found, err := s.store.FindByID(s.ctx, doc.ID)
		s.Require().NoError(err)
		found.Status = models.StatusVerified

		again, err := s.store.FindByID(s.ctx, doc.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusPending, again.Status)
	})
}

func (s *DocumentStoreSuite) TestConditionalUpdate() {
	path := "translation-translated/x/a.pdf"
	patch := models.Patch{Status: models.StatusTranslated, TranslatedFilePath: &path, UpdatedAt: s.base.Add(time.Minute)}

	s.Run("applies patch when status matches", func() {
		doc := s.newDocument("ana@example.com", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, doc))

		updated, err := s.store.ConditionalUpdate(s.ctx, doc.ID, models.StatusPending, patch)
		s.Require().NoError(err)
		s.Equal(models.StatusTranslated, updated.Status)
		s.Equal(path, updated.TranslatedFilePath)
		s.Equal(s.base, updated.CreatedAt)
	})

	s.Run("reports current status on mismatch", func() {
		doc := s.newDocument("ana@example.com", s.base)
		s.Require().NoError(s.store.Insert(s.ctx, doc))

		_, err := s.store.ConditionalUpdate(s.ctx, doc.ID, models.StatusTranslated, patch)
		var mismatch *models.StatusMismatchError
		s.Require().True(errors.As(err, &mismatch))
		s.Equal(models.StatusPending, mismatch.Current)
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.ConditionalUpdate(s.ctx, id.NewDocumentID(), models.StatusPending, patch)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestConcurrentConditionalUpdate verifies exactly one of many racing writers
// wins the same expected status.
func (s *DocumentStoreSuite) TestConcurrentConditionalUpdate() {
	doc := s.newDocument("ana@example.com", s.base)
	s.Require().NoError(s.store.Insert(s.ctx, doc))
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, mismatchCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			path := fmt.Sprintf("translation-translated/x/%d.pdf", n)
			_, err := s.store.ConditionalUpdate(s.ctx, doc.ID, models.StatusPending,
				models.Patch{Status: models.StatusTranslated, TranslatedFilePath: &path, UpdatedAt: s.base})
			if err == nil {
				successCount.Add(1)
			} else if errors.Is(err, sentinel.ErrInvalidState) {
				mismatchCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one update should succeed")
	s.Equal(int32(goroutines-1), mismatchCount.Load())
}

func (s *DocumentStoreSuite) TestQuery() {
	ana1 := s.newDocument("ana@example.com", s.base)
	ana2 := s.newDocument("ana@example.com", s.base.Add(time.Hour))
	bob := s.newDocument("bob@example.com", s.base.Add(2*time.Hour))
	for _, d := range []*models.TranslationDocument{ana1, ana2, bob} {
		s.Require().NoError(s.store.Insert(s.ctx, d))
	}
	path := "p.pdf"
	_, err := s.store.ConditionalUpdate(s.ctx, ana2.ID, models.StatusPending,
		models.Patch{Status: models.StatusTranslated, TranslatedFilePath: &path, UpdatedAt: s.base})
	s.Require().NoError(err)

	s.Run("orders newest first", func() {
		page, err := s.store.Query(s.ctx, models.ListFilter{})
		s.Require().NoError(err)
		s.Equal(3, page.Total)
		s.Equal(models.DefaultListLimit, page.Limit)
		s.Require().Len(page.Documents, 3)
		s.Equal(bob.ID, page.Documents[0].ID)
		s.Equal(ana1.ID, page.Documents[2].ID)
	})

	s.Run("filters by email and status", func() {
		page, err := s.store.Query(s.ctx, models.ListFilter{UserEmail: "ana@example.com"})
		s.Require().NoError(err)
		s.Equal(2, page.Total)

		page, err = s.store.Query(s.ctx, models.ListFilter{UserEmail: "ana@example.com", Status: models.StatusTranslated})
		s.Require().NoError(err)
		s.Require().Len(page.Documents, 1)
		s.Equal(ana2.ID, page.Documents[0].ID)
	})

	s.Run("paginates with total of all matches", func() {
		page, err := s.store.Query(s.ctx, models.ListFilter{Limit: 1, Offset: 1})
		s.Require().NoError(err)
		s.Equal(3, page.Total)
		s.Require().Len(page.Documents, 1)
		s.Equal(ana2.ID, page.Documents[0].ID)

		page, err = s.store.Query(s.ctx, models.ListFilter{Offset: 10})
		s.Require().NoError(err)
		s.Empty(page.Documents)
		s.Equal(3, page.Total)
	})
}
