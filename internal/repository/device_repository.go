package repository

import (
	"context"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type DeviceRepository interface {
	Create(ctx context.Context, device *models.DeviceRecord) error
	GetByID(ctx context.Context, id uint) (*models.DeviceRecord, error)
	GetByAccountAndIMEI(ctx context.Context, accountID uint, imei string) (*models.DeviceRecord, error)
	List(ctx context.Context) ([]models.DeviceRecord, error)
	ListByAccount(ctx context.Context, accountID uint) ([]models.DeviceRecord, error)
	Update(ctx context.Context, device *models.DeviceRecord) error
	Delete(ctx context.Context, id uint) error
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, device *models.DeviceRecord) error {
	if err := r.db.WithContext(ctx).Create(device).Error; err != nil {
		return errors.Wrap(err, "failed to create device record")
	}
	return nil
}

func (r *deviceRepository) GetByID(ctx context.Context, id uint) (*models.DeviceRecord, error) {
	var device models.DeviceRecord
	err := r.db.WithContext(ctx).First(&device, "id = ?", id).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get device record")
	}
	return &device, nil
}

func (r *deviceRepository) GetByAccountAndIMEI(ctx context.Context, accountID uint, imei string) (*models.DeviceRecord, error) {
	var device models.DeviceRecord
	err := r.db.WithContext(ctx).
		First(&device, "account_id = ? AND imei = ?", accountID, imei).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get device record")
	}
	return &device, nil
}

func (r *deviceRepository) List(ctx context.Context) ([]models.DeviceRecord, error) {
	var devices []models.DeviceRecord
	err := r.db.WithContext(ctx).Order("id DESC").Find(&devices).Error
	return devices, err
}

func (r *deviceRepository) ListByAccount(ctx context.Context, accountID uint) ([]models.DeviceRecord, error) {
	var devices []models.DeviceRecord
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC").
		Find(&devices).Error
	return devices, err
}

func (r *deviceRepository) Update(ctx context.Context, device *models.DeviceRecord) error {
	result := r.db.WithContext(ctx).Model(&models.DeviceRecord{}).
		Where("id = ?", device.ID).
		Updates(map[string]interface{}{
			"imei":   device.IMEI,
			"serial": device.Serial,
			"note":   device.Note,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update device record")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.DeviceRecord{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete device record")
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}
