package models

import "time"

// Account is a licensed practitioner record. The photo allowance is copied
// from the license plan at creation time and is never live-linked to the
// catalog afterwards.
type Account struct {
	AccountID   string      `json:"account_id"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	SecretHash  string      `json:"-"`
	Role        AccountRole `json:"role"`
	PlanID      string      `json:"plan_id"`

	PhotosAllowed int `json:"photos_allowed"`
	PhotosUsed    int `json:"photos_used"`

	ActivatedOn time.Time     `json:"activated_on"`
	ExpiresOn   time.Time     `json:"expires_on"`
	Status      AccountStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// PhotosRemaining is the quota still available to the account.
func (a *Account) PhotosRemaining() int {
	remaining := a.PhotosAllowed - a.PhotosUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PercentUsed reports quota consumption as a rounded percentage.
func (a *Account) PercentUsed() int {
	if a.PhotosAllowed == 0 {
		return 0
	}
	return int(float64(a.PhotosUsed)/float64(a.PhotosAllowed)*100 + 0.5)
}

// QuotaExhausted reports whether the account may still submit photos.
func (a *Account) QuotaExhausted() bool {
	return a.PhotosUsed >= a.PhotosAllowed
}
