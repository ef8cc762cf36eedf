package services

import (
	"sendiab_backend/internal/auth"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/internal/store"
	"sendiab_backend/pkg/apperrors"
)

type AuthService interface {
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Session(accountID string) (*dto.SessionResponse, error)
}

type AuthServiceImpl struct {
	accounts store.AccountStore
	tokens   *auth.TokenIssuer
}

func NewAuthService(accounts store.AccountStore, tokens *auth.TokenIssuer) AuthService {
	return &AuthServiceImpl{accounts: accounts, tokens: tokens}
}

// Login authenticates against the account ledger and issues a session
// token. All authentication failures map to the same error.
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, err := s.accounts.Authenticate(req.Identifier, req.Secret)
	if err != nil {
		if apperrors.Is(err, store.ErrAuthFailed) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	token, err := s.tokens.Generate(account.AccountID, string(account.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		AccountID:   account.AccountID,
		DisplayName: account.DisplayName,
		IsAdmin:     account.Role == models.AccountRoleAdmin,
	}, nil
}

// Session describes the current principal. An unknown account (deleted
// snapshot, stale token) reports logged_in=false rather than an error.
func (s *AuthServiceImpl) Session(accountID string) (*dto.SessionResponse, error) {
	if accountID == "" {
		return &dto.SessionResponse{LoggedIn: false}, nil
	}

	account, err := s.accounts.Get(accountID)
	if err != nil {
		if apperrors.Is(err, store.ErrAccountNotFound) {
			return &dto.SessionResponse{LoggedIn: false}, nil
		}
		return nil, apperrors.InternalError(err)
	}

	return &dto.SessionResponse{
		LoggedIn:    true,
		AccountID:   account.AccountID,
		DisplayName: account.DisplayName,
		IsAdmin:     account.Role == models.AccountRoleAdmin,
	}, nil
}
