package services

import (
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/internal/store"
)

type ReadingService interface {
	History(accountID string, limit int) []*dto.ReadingSummary
}

type ReadingServiceImpl struct {
	readings store.ReadingStore
}

func NewReadingService(readings store.ReadingStore) ReadingService {
	return &ReadingServiceImpl{readings: readings}
}

// History lists the account's readings, newest first.
func (s *ReadingServiceImpl) History(accountID string, limit int) []*dto.ReadingSummary {
	readings := s.readings.ListFor(accountID, limit)
	out := make([]*dto.ReadingSummary, 0, len(readings))
	for _, r := range readings {
		out = append(out, dto.NewReadingSummary(r))
	}
	return out
}
