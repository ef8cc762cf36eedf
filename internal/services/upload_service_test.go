package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sendiab_backend/internal/catalog"
	"sendiab_backend/internal/classifier"
	"sendiab_backend/internal/imageprocessor"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/photoarchive"
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/internal/store"
	"sendiab_backend/pkg/apperrors"
)

type stubAnalyzer struct {
	raw   string
	err   error
	calls int
}

func (a *stubAnalyzer) Analyze(_ context.Context, _ []byte) (string, error) {
	a.calls++
	return a.raw, a.err
}

func newUploadFixture(t *testing.T, allowance int, analyzer *stubAnalyzer) (UploadService, store.AccountStore, store.ReadingStore) {
	t.Helper()

	cat, err := catalog.New([]catalog.Plan{
		{ID: "test", Name: "Test", PhotoAllowance: allowance, ValidityDays: 30, Price: 1000},
	})
	require.NoError(t, err)

	accounts, err := store.NewAccountStore(store.NoopSnapshotter{}, cat)
	require.NoError(t, err)

	_, _, err = accounts.Create(store.CreateAccountParams{
		AccountID:   "dr-kane",
		DisplayName: "Dr. Kane",
		Email:       "kane@example.com",
		PlanID:      "test",
	})
	require.NoError(t, err)

	readings := store.NewReadingStore()
	svc := NewUploadService(accounts, readings, analyzer, imageprocessor.NewNormalizer(0, 0), photoarchive.NoopArchive{})
	return svc, accounts, readings
}

func TestSubmit_CommaDecimalReading(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "1,20"}
	svc, accounts, readings := newUploadFixture(t, 10, analyzer)

	image := []byte("fake-meter-photo")
	result, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{
		PatientID:   "PAT-001",
		PatientName: "Awa Diop",
		Phone:       "+221770000000",
	}, image)
	require.NoError(t, err)

	assert.Equal(t, 1.20, result.Value)
	assert.Equal(t, classifier.BandNormal, result.Band)
	assert.Contains(t, result.Message, "1.2")
	assert.Equal(t, 9, result.PhotosRemaining)

	account, err := accounts.Get("dr-kane")
	require.NoError(t, err)
	assert.Equal(t, 1, account.PhotosUsed)

	stored := readings.ListFor("dr-kane", 0)
	require.Len(t, stored, 1)
	assert.Equal(t, "PAT-001", stored[0].PatientID)
	assert.Equal(t, "Awa Diop", stored[0].PatientName)
	assert.Equal(t, image, stored[0].ImageData)
	assert.Equal(t, result.ReadingID, stored[0].ID)
}

func TestSubmit_SevereHypoProducesUrgentMessage(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "0.5"}
	svc, _, _ := newUploadFixture(t, 10, analyzer)

	result, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	require.NoError(t, err)

	assert.Equal(t, classifier.BandSevereHypo, result.Band)
	assert.Contains(t, result.Message, "URGENT")
}

func TestSubmit_QuotaExhausted(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "1.10"}
	svc, _, _ := newUploadFixture(t, 2, analyzer)

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
		require.NoError(t, err)
	}

	_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	assert.ErrorIs(t, err, apperrors.ErrQuotaExhausted)

	// The exhausted request never reached the vision service.
	assert.Equal(t, 2, analyzer.calls)
}

func TestSubmit_MissingImageReleasesReservation(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "1.10"}
	svc, _, _ := newUploadFixture(t, 1, analyzer)

	_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, nil)
	assert.ErrorIs(t, err, apperrors.ErrMissingImage)

	// The last quota unit must still be usable after the failed attempt.
	_, err = svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	assert.NoError(t, err)
}

func TestSubmit_InactiveLicense(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "1.10"}
	svc, accounts, _ := newUploadFixture(t, 10, analyzer)

	require.NoError(t, accounts.SetStatus("dr-kane", models.AccountStatusInactive))

	_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	assert.ErrorIs(t, err, apperrors.ErrLicenseInactive)
	assert.Zero(t, analyzer.calls)
}

func TestSubmit_UnknownAccount(t *testing.T) {
	svc, _, _ := newUploadFixture(t, 10, &stubAnalyzer{raw: "1.10"})

	_, err := svc.Submit(context.Background(), "nobody", &dto.UploadRequest{}, []byte("photo"))
	assert.ErrorIs(t, err, apperrors.ErrAccountNotFound)
}

func TestSubmit_UnparseableReadingConsumesNoQuota(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "unreadable"}
	svc, accounts, readings := newUploadFixture(t, 10, analyzer)

	_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidReading)

	account, err := accounts.Get("dr-kane")
	require.NoError(t, err)
	assert.Zero(t, account.PhotosUsed)
	assert.Zero(t, readings.Len())
}

func TestSubmit_StrictAnalyzerFailure(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("vision unavailable")}
	svc, accounts, _ := newUploadFixture(t, 10, analyzer)

	_, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	assert.ErrorIs(t, err, apperrors.ErrAnalysisFailed)

	account, err := accounts.Get("dr-kane")
	require.NoError(t, err)
	assert.Zero(t, account.PhotosUsed)
}

func TestSubmit_SynthesizesPatientID(t *testing.T) {
	analyzer := &stubAnalyzer{raw: "1.10"}
	svc, _, _ := newUploadFixture(t, 10, analyzer)

	result, err := svc.Submit(context.Background(), "dr-kane", &dto.UploadRequest{}, []byte("photo"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.PatientID, "PAT-"))
	assert.Len(t, result.PatientID, len("PAT-")+8)
}

func TestParseReadingValue(t *testing.T) {
	cases := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "1.20", want: 1.20},
		{raw: "1,20", want: 1.20},
		{raw: " 0,85 ", want: 0.85},
		{raw: "2", want: 2},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tc := range cases {
		got, err := parseReadingValue(tc.raw)
		if tc.wantErr {
			assert.Error(t, err, "raw=%q", tc.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tc.raw)
		assert.Equal(t, tc.want, got, "raw=%q", tc.raw)
	}
}
