package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"sendiab_backend/internal/classifier"
	"sendiab_backend/internal/models"
)

func newReading(accountID string, value float64) *models.Reading {
	band := classifier.Classify(value)
	return &models.Reading{
		AccountID: accountID,
		PatientID: "PAT-1",
		Value:     value,
		Band:      band,
		Message:   classifier.RenderMessage(band, value),
	}
}

func TestAppend_AssignsMonotonicIDs(t *testing.T) {
	s := NewReadingStore()

	var last int64
	for i := 0; i < 10; i++ {
		r := newReading("DOC001", 1.1)
		s.Append(r)
		assert.Greater(t, r.ID, last)
		last = r.ID
	}
}

func TestListFor_MostRecentFirst(t *testing.T) {
	s := NewReadingStore()
	for i, v := range []float64{0.8, 1.1, 1.5} {
		r := newReading("DOC001", v)
		r.PatientID = fmt.Sprintf("PAT-%d", i)
		s.Append(r)
	}

	got := s.ListFor("DOC001", 0)
	assert.Len(t, got, 3)
	assert.Equal(t, 1.5, got[0].Value, "newest first")
	assert.Equal(t, 0.8, got[2].Value)
}

func TestListFor_FiltersByOwner(t *testing.T) {
	s := NewReadingStore()
	s.Append(newReading("DOC001", 1.0))
	s.Append(newReading("DOC002", 1.2))
	s.Append(newReading("DOC001", 1.4))

	got := s.ListFor("DOC001", 0)
	assert.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "DOC001", r.AccountID)
	}

	assert.Empty(t, s.ListFor("DOC404", 0))
}

func TestListFor_AppliesLimit(t *testing.T) {
	s := NewReadingStore()
	for i := 0; i < 60; i++ {
		s.Append(newReading("DOC001", 1.1))
	}

	assert.Len(t, s.ListFor("DOC001", 0), DefaultListLimit)
	assert.Len(t, s.ListFor("DOC001", 5), 5)
	assert.Len(t, s.ListFor("DOC001", 100), 60)
}
