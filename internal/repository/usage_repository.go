package repository

import (
	"context"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type UsageRepository interface {
	Create(ctx context.Context, usage *models.UsageRecord) error
	GetByID(ctx context.Context, id uint) (*models.UsageRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.UsageRecord, error)
	ListByAccount(ctx context.Context, accountID uint, limit int) ([]models.UsageRecord, error)
	RecordLookup(ctx context.Context, accountID, serviceID uint, imei string, success bool) error
}

type usageRepository struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) UsageRepository {
	return &usageRepository{db: db}
}

func (r *usageRepository) Create(ctx context.Context, usage *models.UsageRecord) error {
	if err := r.db.WithContext(ctx).Create(usage).Error; err != nil {
		return errors.Wrap(err, "failed to create usage record")
	}
	return nil
}

func (r *usageRepository) GetByID(ctx context.Context, id uint) (*models.UsageRecord, error) {
	var usage models.UsageRecord
	err := r.db.WithContext(ctx).First(&usage, "id = ?", id).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get usage record")
	}
	return &usage, nil
}

func (r *usageRepository) ListRecent(ctx context.Context, limit int) ([]models.UsageRecord, error) {
	var usages []models.UsageRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&usages).Error
	return usages, err
}

func (r *usageRepository) ListByAccount(ctx context.Context, accountID uint, limit int) ([]models.UsageRecord, error) {
	var usages []models.UsageRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&usages).Error
	return usages, err
}

// RecordLookup finalizes one lookup attempt in a single transaction: one
// free call is debited on success via a conditional decrement that can
// never go below zero, the audit row is inserted, and a device record is
// created the first time this account queries this identifier. The
// provider call has already happened by the time this runs; no lock is
// held across it.
func (r *usageRepository) RecordLookup(ctx context.Context, accountID, serviceID uint, imei string, success bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if success {
			// Guarded decrement; concurrent lookups on the same account
			// cannot push free_calls negative.
			err := tx.Model(&models.Account{}).
				Where("id = ? AND free_calls > 0", accountID).
				UpdateColumn("free_calls", gorm.Expr("free_calls - 1")).Error
			if err != nil {
				return err
			}
		}

		usage := models.UsageRecord{
			AccountID: accountID,
			ServiceID: serviceID,
			IMEI:      imei,
			Success:   success,
			Cost:      0,
		}
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}

		var device models.DeviceRecord
		err := tx.Where("account_id = ? AND imei = ?", accountID, imei).
			First(&device).Error
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			device = models.DeviceRecord{AccountID: accountID, IMEI: imei}
			return tx.Create(&device).Error
		}
		return err
	})
}
