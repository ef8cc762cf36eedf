package services

import (
	"sendiab_backend/internal/catalog"
	"sendiab_backend/internal/email"
	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/services/dto"
	"sendiab_backend/internal/store"
	"sendiab_backend/pkg/apperrors"
)

type AccountService interface {
	Info(accountID string) (*dto.AccountInfo, error)
	AdminCreate(req *dto.AdminCreateAccountRequest) (*dto.CreatedCredentials, error)
	AdminList() []*dto.AccountInfo
	AdminStats() *store.LedgerStats
	Plans() []catalog.Plan
}

type AccountServiceImpl struct {
	accounts store.AccountStore
	catalog  *catalog.Catalog
	emails   email.Provider
}

func NewAccountService(accounts store.AccountStore, cat *catalog.Catalog, emails email.Provider) AccountService {
	return &AccountServiceImpl{accounts: accounts, catalog: cat, emails: emails}
}

func (s *AccountServiceImpl) Info(accountID string) (*dto.AccountInfo, error) {
	account, err := s.accounts.Get(accountID)
	if err != nil {
		if apperrors.Is(err, store.ErrAccountNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewAccountInfo(account), nil
}

// AdminCreate provisions a practitioner account. The response is the only
// place the plaintext secret ever appears; when SMTP is configured the
// credentials also go out by email, best-effort.
func (s *AccountServiceImpl) AdminCreate(req *dto.AdminCreateAccountRequest) (*dto.CreatedCredentials, error) {
	plan, err := s.catalog.Lookup(req.PlanID)
	if err != nil {
		return nil, apperrors.ErrInvalidPlan
	}

	account, secret, err := s.accounts.Create(store.CreateAccountParams{
		AccountID:   req.AccountID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		PlanID:      req.PlanID,
		Role:        models.AccountRolePractitioner,
	})
	if err != nil {
		switch {
		case apperrors.Is(err, store.ErrDuplicateAccount):
			return nil, apperrors.ErrDuplicateAccountID
		case apperrors.Is(err, store.ErrInvalidPlan):
			return nil, apperrors.ErrInvalidPlan
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	s.sendCredentials(account, secret, plan)

	return &dto.CreatedCredentials{
		AccountID:      account.AccountID,
		DisplayName:    account.DisplayName,
		Email:          account.Email,
		Secret:         secret,
		PlanID:         plan.ID,
		PlanName:       plan.Name,
		PhotoAllowance: plan.PhotoAllowance,
		ValidityDays:   plan.ValidityDays,
		Price:          plan.Price,
	}, nil
}

// AdminList returns every practitioner account with derived quota
// figures; admin accounts are not part of the listing.
func (s *AccountServiceImpl) AdminList() []*dto.AccountInfo {
	accounts := s.accounts.ListAll(models.AccountRoleAdmin)
	out := make([]*dto.AccountInfo, 0, len(accounts))
	for _, acc := range accounts {
		out = append(out, dto.NewAccountInfo(acc))
	}
	return out
}

func (s *AccountServiceImpl) AdminStats() *store.LedgerStats {
	return s.accounts.Stats()
}

func (s *AccountServiceImpl) Plans() []catalog.Plan {
	return s.catalog.List()
}

func (s *AccountServiceImpl) sendCredentials(account *models.Account, secret string, plan *catalog.Plan) {
	if s.emails == nil || account.Email == "" {
		return
	}

	go func() {
		if err := s.emails.SendCredentials(account.Email, account.DisplayName, account.AccountID, secret, plan); err != nil {
			logger.Warn("failed to send credentials email",
				"account_id", account.AccountID,
				"error", err.Error(),
			)
		}
	}()
}
