package services

import (
	"context"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
)

// DefaultFreeCalls is the starting grant for accounts created on first contact.
const DefaultFreeCalls = 10

type AccountService interface {
	ResolveOrCreate(ctx context.Context, telegramID int64, username string) (*models.Account, error)
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	SetFreeCalls(ctx context.Context, id uint, freeCalls int) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
}

// Profile is the account view returned to the bot for profile display.
type Profile struct {
	UserID    uint   `json:"user_id"`
	FreeCalls int    `json:"free_calls"`
	PaidCalls int    `json:"paid_calls"`
	Username  string `json:"username"`
}

func ProfileOf(account *models.Account) *Profile {
	return &Profile{
		UserID:    account.ID,
		FreeCalls: account.FreeCalls,
		PaidCalls: account.PaidCalls,
		Username:  account.Username,
	}
}

type accountService struct {
	accountRepo repository.AccountRepository
}

func NewAccountService(accountRepo repository.AccountRepository) AccountService {
	return &accountService{
		accountRepo: accountRepo,
	}
}

// ResolveOrCreate looks an account up by its chat-platform id, creating it
// with the default free-call grant on first contact. A changed username is
// refreshed in place.
func (s *accountService) ResolveOrCreate(ctx context.Context, telegramID int64, username string) (*models.Account, error) {
	account, err := s.accountRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if !stderrors.Is(err, errors.ErrNotFound) {
			return nil, err
		}

		account = &models.Account{
			TelegramID: telegramID,
			Username:   username,
			Registered: true,
			FreeCalls:  DefaultFreeCalls,
			PaidCalls:  0,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
		return account, nil
	}

	if username != "" && username != account.Username {
		if err := s.accountRepo.UpdateUsername(ctx, account.ID, username); err != nil {
			return nil, err
		}
		account.Username = username
	}

	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) List(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.List(ctx)
}

func (s *accountService) SetFreeCalls(ctx context.Context, id uint, freeCalls int) error {
	if freeCalls < 0 {
		return errors.ErrInvalidInput
	}
	return s.accountRepo.SetFreeCalls(ctx, id, freeCalls)
}

func (s *accountService) Update(ctx context.Context, account *models.Account) error {
	if account.FreeCalls < 0 || account.PaidCalls < 0 {
		return errors.ErrInvalidInput
	}
	return s.accountRepo.Update(ctx, account)
}

func (s *accountService) Delete(ctx context.Context, id uint) error {
	return s.accountRepo.Delete(ctx, id)
}
