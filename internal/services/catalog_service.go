package services

import (
	"context"
	"encoding/json"
	"lookup-api/internal/config"
	"lookup-api/internal/logger"
	"lookup-api/internal/models"
	"lookup-api/internal/repository"

	"github.com/sirupsen/logrus"
)

const groupedServicesCacheKey = "services:grouped"

type CatalogService interface {
	GetByCode(ctx context.Context, code string) (*models.Service, error)
	GetByID(ctx context.Context, id uint) (*models.Service, error)
	List(ctx context.Context) ([]models.Service, error)
	ListGrouped(ctx context.Context) (map[string][]GroupedService, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, id uint, update ServiceUpdate) (*models.Service, error)
	Delete(ctx context.Context, id uint) error
}

// GroupedService is the catalog entry shape the menu-rendering bot consumes.
type GroupedService struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	APIURL string `json:"api_url"`
}

// ServiceUpdate carries the partial fields of a catalog update. Code is
// identity and deliberately absent; rewriting it means delete plus create.
type ServiceUpdate struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Group           *string `json:"group"`
	APIURL          *string `json:"api_url"`
	APIKey          *string `json:"api_key"`
	IsPublic        *bool   `json:"is_public"`
	PreferredMethod *string `json:"preferred_method"`
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
	cache       CacheService
	cacheCfg    *config.CacheConfig
}

// NewCatalogService builds the catalog. cache may be nil, in which case the
// grouped listing is served straight from the store.
func NewCatalogService(serviceRepo repository.ServiceRepository, cache CacheService, cacheCfg *config.CacheConfig) CatalogService {
	return &catalogService{
		serviceRepo: serviceRepo,
		cache:       cache,
		cacheCfg:    cacheCfg,
	}
}

func (s *catalogService) GetByCode(ctx context.Context, code string) (*models.Service, error) {
	return s.serviceRepo.GetByCode(ctx, code)
}

func (s *catalogService) GetByID(ctx context.Context, id uint) (*models.Service, error) {
	return s.serviceRepo.GetByID(ctx, id)
}

func (s *catalogService) List(ctx context.Context) ([]models.Service, error) {
	return s.serviceRepo.List(ctx)
}

func (s *catalogService) ListGrouped(ctx context.Context) (map[string][]GroupedService, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, groupedServicesCacheKey); err == nil {
			var groups map[string][]GroupedService
			if err := json.Unmarshal([]byte(cached), &groups); err == nil {
				return groups, nil
			}
		}
	}

	services, err := s.serviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]GroupedService)
	for _, svc := range services {
		groups[svc.Group] = append(groups[svc.Group], GroupedService{
			Code:   svc.Code,
			Name:   svc.Name,
			APIURL: svc.APIURL,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, groupedServicesCacheKey, groups, s.cacheCfg.DefaultTTL); err != nil {
			logger.LogEvent(logrus.WarnLevel, "Failed to cache grouped services", logrus.Fields{
				"error": err.Error(),
			})
		}
	}

	return groups, nil
}

func (s *catalogService) Create(ctx context.Context, service *models.Service) error {
	if err := s.serviceRepo.Create(ctx, service); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) Update(ctx context.Context, id uint, update ServiceUpdate) (*models.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		service.Name = *update.Name
	}
	if update.Description != nil {
		service.Description = *update.Description
	}
	if update.Group != nil {
		service.Group = *update.Group
	}
	if update.APIURL != nil {
		service.APIURL = *update.APIURL
	}
	if update.APIKey != nil {
		service.APIKey = *update.APIKey
	}
	if update.IsPublic != nil {
		service.IsPublic = *update.IsPublic
	}
	if update.PreferredMethod != nil {
		service.PreferredMethod = *update.PreferredMethod
	}

	if err := s.serviceRepo.Update(ctx, service); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return service, nil
}

func (s *catalogService) Delete(ctx context.Context, id uint) error {
	if err := s.serviceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, groupedServicesCacheKey); err != nil {
		logger.LogEvent(logrus.WarnLevel, "Failed to invalidate grouped services cache", logrus.Fields{
			"error": err.Error(),
		})
	}
}
