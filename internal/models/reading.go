package models

import (
	"time"

	"sendiab_backend/internal/classifier"
)

// Reading is one submitted glucose measurement plus its derived
// classification. Immutable once created; the image payload is stored
// inline with the record.
type Reading struct {
	ID           int64           `json:"id"`
	AccountID    string          `json:"account_id"`
	PatientID    string          `json:"patient_id"`
	PatientName  string          `json:"patient_name"`
	PatientPhone string          `json:"patient_phone"`
	DiabetesType string          `json:"diabetes_type"`
	Treatment    string          `json:"treatment"`
	ImageData    []byte          `json:"image_data"`
	Value        float64         `json:"value"`
	Band         classifier.Band `json:"severity_band"`
	Message      string          `json:"notification_text"`
	CreatedAt    time.Time       `json:"created_at"`
}
