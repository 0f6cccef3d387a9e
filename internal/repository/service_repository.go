package repository

import (
	"context"
	stderrors "errors"
	"lookup-api/internal/models"
	"lookup-api/internal/pkg/errors"

	"gorm.io/gorm"
)

type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	GetByCode(ctx context.Context, code string) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	Delete(ctx context.Context, id uint) error
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	// Reject duplicate codes before insert; the unique index is the backstop.
	existing, err := r.GetByCode(ctx, service.Code)
	if err != nil && !stderrors.Is(err, errors.ErrServiceNotFound) {
		return err
	}
	if existing != nil {
		return errors.ErrDuplicateCode
	}

	if err := r.db.WithContext(ctx).Create(service).Error; err != nil {
		return errors.Wrap(err, "failed to create service")
	}
	return nil
}

func (r *serviceRepository) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrServiceNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get service by ID")
	}
	return &service, nil
}

func (r *serviceRepository) GetByCode(ctx context.Context, code string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).First(&service, "code = ?", code).Error

	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.ErrServiceNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get service by code")
	}
	return &service, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Order("\"group\", name").
		Find(&services).Error
	return services, err
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	// Code is identity and never rewritten here.
	result := r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", service.ID).
		Updates(map[string]interface{}{
			"name":             service.Name,
			"description":      service.Description,
			"group":            service.Group,
			"api_url":          service.APIURL,
			"api_key":          service.APIKey,
			"is_public":        service.IsPublic,
			"preferred_method": service.PreferredMethod,
		})

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update service")
	}
	if result.RowsAffected == 0 {
		return errors.ErrServiceNotFound
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete service")
	}
	if result.RowsAffected == 0 {
		return errors.ErrServiceNotFound
	}
	return nil
}
