package repository

import (
	"context"
	"lookup-api/internal/models"

	"gorm.io/gorm"
)

type StatsRepository interface {
	Counts(ctx context.Context) (accounts, services, devices, usages int64, err error)
}

type statsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) Counts(ctx context.Context) (accounts, services, devices, usages int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Account{}).Count(&accounts).Error; err != nil {
		return
	}
	if err = r.db.WithContext(ctx).Model(&models.Service{}).Count(&services).Error; err != nil {
		return
	}
	if err = r.db.WithContext(ctx).Model(&models.DeviceRecord{}).Count(&devices).Error; err != nil {
		return
	}
	err = r.db.WithContext(ctx).Model(&models.UsageRecord{}).Count(&usages).Error
	return
}
