package repository

import (
	"context"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.Account, error)
	List(ctx context.Context) ([]models.Account, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
	SetFreeCalls(ctx context.Context, id uint, freeCalls int) error
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to create account")
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, "id = ?", id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get account by ID")
	}

	return &account, nil
}

func (r *accountRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*models.Account, error) {
	var account models.Account
	result := r.db.WithContext(ctx).First(&account, "telegram_id = ?", telegramID)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound
		}
		return nil, errors.Wrap(result.Error, "failed to get account by telegram ID")
	}

	return &account, nil
}

func (r *accountRepository) List(ctx context.Context) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Order("id DESC").Find(&accounts).Error
	return accounts, err
}

func (r *accountRepository) UpdateUsername(ctx context.Context, id uint, username string) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("username", username)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update username")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) SetFreeCalls(ctx context.Context, id uint, freeCalls int) error {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Update("free_calls", freeCalls)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to set free calls")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Model(account).Updates(map[string]interface{}{
		"username":   account.Username,
		"registered": account.Registered,
		"free_calls": account.FreeCalls,
		"paid_calls": account.PaidCalls,
	})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
