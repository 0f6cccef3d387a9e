package services

import (
	"context"
	"lookup-api/internal/models"
	"lookup-api/internal/repository"
)

type StatusReport struct {
	UsersCount    int64                `json:"users_count"`
	ServicesCount int64                `json:"services_count"`
	DevicesCount  int64                `json:"devices_count"`
	UsagesCount   int64                `json:"usages_count"`
	PaymentsTotal float64              `json:"payments_total"`
	RecentUsages  []models.UsageRecord `json:"recent_usages"`
}

type StatusService interface {
	GetStatus(ctx context.Context) (*StatusReport, error)
}

type statusService struct {
	statsRepo   repository.StatsRepository
	paymentRepo repository.PaymentRepository
	usageRepo   repository.UsageRepository
}

func NewStatusService(
	statsRepo repository.StatsRepository,
	paymentRepo repository.PaymentRepository,
	usageRepo repository.UsageRepository,
) StatusService {
	return &statusService{
		statsRepo:   statsRepo,
		paymentRepo: paymentRepo,
		usageRepo:   usageRepo,
	}
}

func (s *statusService) GetStatus(ctx context.Context) (*StatusReport, error) {
	accounts, services, devices, usages, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.paymentRepo.TotalAmount(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.usageRepo.ListRecent(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &StatusReport{
		UsersCount:    accounts,
		ServicesCount: services,
		DevicesCount:  devices,
		UsagesCount:   usages,
		PaymentsTotal: total,
		RecentUsages:  recent,
	}, nil
}
