package dto

import "sendiab_backend/internal/classifier"

// UploadRequest carries the patient form fields accompanying the photo.
type UploadRequest struct {
	PatientID    string `form:"patient_id"`
	PatientName  string `form:"patient_name"`
	Phone        string `form:"phone"`
	DiabetesType string `form:"diabetes_type"`
	Treatment    string `form:"treatment"`
}

type UploadResult struct {
	ReadingID       int64           `json:"reading_id"`
	PatientID       string          `json:"patient_id"`
	Value           float64         `json:"value"`
	Band            classifier.Band `json:"severity_band"`
	Message         string          `json:"notification_text"`
	PhotosRemaining int             `json:"photos_remaining"`
}
