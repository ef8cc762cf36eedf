package dto

import (
	"time"

	"sendiab_backend/internal/models"
)

// AccountInfo is an account enriched with derived quota figures.
type AccountInfo struct {
	AccountID       string               `json:"account_id"`
	DisplayName     string               `json:"display_name"`
	Email           string               `json:"email"`
	Phone           string               `json:"phone"`
	Role            models.AccountRole   `json:"role"`
	PlanID          string               `json:"plan_id"`
	PhotosAllowed   int                  `json:"photos_allowed"`
	PhotosUsed      int                  `json:"photos_used"`
	PhotosRemaining int                  `json:"photos_remaining"`
	PercentUsed     int                  `json:"percent_used"`
	ActivatedOn     time.Time            `json:"activated_on"`
	ExpiresOn       time.Time            `json:"expires_on"`
	Status          models.AccountStatus `json:"status"`
}

// NewAccountInfo derives the response view from a ledger record.
func NewAccountInfo(a *models.Account) *AccountInfo {
	return &AccountInfo{
		AccountID:       a.AccountID,
		DisplayName:     a.DisplayName,
		Email:           a.Email,
		Phone:           a.Phone,
		Role:            a.Role,
		PlanID:          a.PlanID,
		PhotosAllowed:   a.PhotosAllowed,
		PhotosUsed:      a.PhotosUsed,
		PhotosRemaining: a.PhotosRemaining(),
		PercentUsed:     a.PercentUsed(),
		ActivatedOn:     a.ActivatedOn,
		ExpiresOn:       a.ExpiresOn,
		Status:          a.Status,
	}
}

type AdminCreateAccountRequest struct {
	AccountID   string `json:"account_id" validate:"required,min=3,max=64"`
	DisplayName string `json:"display_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"omitempty,min=6"`
	PlanID      string `json:"plan_id" validate:"required"`
}

// CreatedCredentials is returned exactly once, right after creation. The
// secret is not retrievable afterwards.
type CreatedCredentials struct {
	AccountID      string  `json:"account_id"`
	DisplayName    string  `json:"display_name"`
	Email          string  `json:"email"`
	Secret         string  `json:"secret"`
	PlanID         string  `json:"plan_id"`
	PlanName       string  `json:"plan_name"`
	PhotoAllowance int     `json:"photo_allowance"`
	ValidityDays   int     `json:"validity_days"`
	Price          float64 `json:"price"`
}
