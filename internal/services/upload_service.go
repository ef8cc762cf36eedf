package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"sendiab_backend/internal/classifier"
	"sendiab_backend/internal/imageprocessor"
	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/photoarchive"
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/internal/store"
	"sendiab_backend/internal/vision"
	"sendiab_backend/pkg/apperrors"
)

type UploadService interface {
	Submit(ctx context.Context, accountID string, req *dto.UploadRequest, image []byte) (*dto.UploadResult, error)
}

type UploadServiceImpl struct {
	accounts   store.AccountStore
	readings   store.ReadingStore
	analyzer   vision.Analyzer
	normalizer *imageprocessor.Normalizer
	archive    photoarchive.Archive
}

func NewUploadService(
	accounts store.AccountStore,
	readings store.ReadingStore,
	analyzer vision.Analyzer,
	normalizer *imageprocessor.Normalizer,
	archive photoarchive.Archive,
) UploadService {
	return &UploadServiceImpl{
		accounts:   accounts,
		readings:   readings,
		analyzer:   analyzer,
		normalizer: normalizer,
		archive:    archive,
	}
}

// Submit runs one upload end to end: license check, quota reservation,
// external analysis, classification, then the paired reading append and
// quota commit. The reservation is claimed before the slow analysis call
// and either committed or released, so the quota check and the increment
// act as one atomic step without holding the ledger lock across the
// network call.
func (s *UploadServiceImpl) Submit(ctx context.Context, accountID string, req *dto.UploadRequest, image []byte) (*dto.UploadResult, error) {
	account, err := s.accounts.Get(accountID)
	if err != nil {
		if apperrors.Is(err, store.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if account.Status != models.AccountStatusActive {
		return nil, apperrors.ErrLicenseInactive
	}

	if err := s.accounts.ReserveQuota(accountID); err != nil {
		switch {
		case apperrors.Is(err, store.ErrQuotaExhausted):
			return nil, apperrors.ErrQuotaExhausted
		case apperrors.Is(err, store.ErrAccountNotFound):
			return nil, apperrors.ErrAccountNotFound
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	result, err := s.analyzeAndRecord(ctx, accountID, req, image)
	if err != nil {
		s.accounts.ReleaseQuota(accountID)
		return nil, err
	}
	return result, nil
}

// analyzeAndRecord covers the steps that run while a reservation is held.
// Any error return makes the caller release the reservation.
func (s *UploadServiceImpl) analyzeAndRecord(ctx context.Context, accountID string, req *dto.UploadRequest, image []byte) (*dto.UploadResult, error) {
	if len(image) == 0 {
		return nil, apperrors.ErrMissingImage
	}

	raw, err := s.analyzer.Analyze(ctx, s.normalizer.Normalize(image))
	if err != nil {
		// Strict mode only; degraded mode never errors here.
		return nil, apperrors.ErrAnalysisFailed
	}

	value, err := parseReadingValue(raw)
	if err != nil {
		logger.CtxWarn(ctx, "analysis returned a non-numeric value", "raw", raw)
		return nil, apperrors.ErrInvalidReading
	}

	band := classifier.Classify(value)
	message := classifier.RenderMessage(band, value)

	// Commit before the append: a persisted quota consumption without its
	// reading is impossible to observe (the append is process-local and
	// infallible), while the reverse would hand out a free analysis.
	account, err := s.accounts.CommitQuota(accountID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to commit quota consumption", err)
		return nil, apperrors.InternalError(err)
	}

	reading := &models.Reading{
		AccountID:    accountID,
		PatientID:    patientID(req.PatientID),
		PatientName:  req.PatientName,
		PatientPhone: req.Phone,
		DiabetesType: req.DiabetesType,
		Treatment:    req.Treatment,
		ImageData:    image,
		Value:        value,
		Band:         band,
		Message:      message,
	}
	s.readings.Append(reading)
	s.archivePhoto(ctx, reading)

	logger.CtxInfo(ctx, "reading recorded",
		"reading_id", reading.ID,
		"band", band,
		"photos_remaining", account.PhotosRemaining(),
	)

	return &dto.UploadResult{
		ReadingID:       reading.ID,
		PatientID:       reading.PatientID,
		Value:           value,
		Band:            band,
		Message:         message,
		PhotosRemaining: account.PhotosRemaining(),
	}, nil
}

// archivePhoto stores the original payload in the durable archive,
// best-effort. The reading itself is already recorded; an archive fault
// never fails the upload.
func (s *UploadServiceImpl) archivePhoto(ctx context.Context, reading *models.Reading) {
	key := photoarchive.Key(reading.AccountID, reading.ID)
	go func() {
		if err := s.archive.Put(context.Background(), key, reading.ImageData, "image/jpeg"); err != nil {
			logger.CtxWarn(ctx, "failed to archive photo", "key", key, "error", err.Error())
		}
	}()
}

// parseReadingValue accepts both dot and comma decimal separators; meters
// in francophone regions display "1,20".
func parseReadingValue(raw string) (float64, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

// patientID keeps a provided identifier or synthesizes one.
func patientID(provided string) string {
	if provided != "" {
		return provided
	}
	return "PAT-" + strings.ToUpper(uuid.NewString()[:8])
}
