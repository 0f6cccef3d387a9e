package repository

import (
	"context"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	List(ctx context.Context, limit int) ([]models.Payment, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.Payment, error)
	TotalAmount(ctx context.Context) (float64, error)
	Delete(ctx context.Context, id uint) error
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return errors.Wrap(err, "failed to create payment")
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payment")
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) TotalAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *paymentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete payment")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
