package dto

import (
	"time"

	"sendiab_backend/internal/classifier"
	"sendiab_backend/internal/models"
)

// ReadingSummary is a reading as listed in history responses. The photo
// payload is omitted; listings stay lightweight.
type ReadingSummary struct {
	ID           int64           `json:"id"`
	PatientID    string          `json:"patient_id"`
	PatientName  string          `json:"patient_name,omitempty"`
	PatientPhone string          `json:"patient_phone,omitempty"`
	DiabetesType string          `json:"diabetes_type,omitempty"`
	Treatment    string          `json:"treatment,omitempty"`
	Value        float64         `json:"value"`
	Band         classifier.Band `json:"severity_band"`
	Message      string          `json:"notification_text"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewReadingSummary(r *models.Reading) *ReadingSummary {
	return &ReadingSummary{
		ID:           r.ID,
		PatientID:    r.PatientID,
		PatientName:  r.PatientName,
		PatientPhone: r.PatientPhone,
		DiabetesType: r.DiabetesType,
		Treatment:    r.Treatment,
		Value:        r.Value,
		Band:         r.Band,
		Message:      r.Message,
		CreatedAt:    r.CreatedAt,
	}
}
