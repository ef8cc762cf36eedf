package dto

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	AccountID   string `json:"account_id"`
	DisplayName string `json:"display_name"`
	IsAdmin     bool   `json:"is_admin"`
}

type SessionResponse struct {
	LoggedIn    bool   `json:"logged_in"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	IsAdmin     bool   `json:"is_admin,omitempty"`
}
