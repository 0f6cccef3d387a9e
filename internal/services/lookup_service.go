package services

import (
	"context"
	"encoding/json"
	"lookup-api/internal/logger"
	"lookup-api/internal/pkg/errors"
	"lookup-api/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// LookupRequest is one inbound lookup: who is asking, which catalog entry
// to use and which identifier to query.
type LookupRequest struct {
	TelegramID  int64
	Username    string
	ServiceCode string
	IMEI        string
}

// LookupResult is the business outcome of a lookup. A failed provider call
// is still a result, not an error; Lookup only returns a Go error for the
// pre-provider gates (unknown service, exhausted quota) and internal faults.
type LookupResult struct {
	Success      bool
	Payload      json.RawMessage
	ErrorMessage string
}

type LookupService interface {
	Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error)
}

type lookupService struct {
	accountService AccountService
	catalog        CatalogService
	provider       ProviderClient
	usageRepo      repository.UsageRepository
}

func NewLookupService(
	accountService AccountService,
	catalog CatalogService,
	provider ProviderClient,
	usageRepo repository.UsageRepository,
) LookupService {
	return &lookupService{
		accountService: accountService,
		catalog:        catalog,
		provider:       provider,
		usageRepo:      usageRepo,
	}
}

// Lookup drives one request end to end: resolve the account, resolve the
// service, gate on quota, call the provider, then commit debit and audit
// rows in a single transaction. Rejected requests (unknown service,
// exhausted quota) never reach the provider and leave no audit trail.
func (s *lookupService) Lookup(ctx context.Context, req LookupRequest) (*LookupResult, error) {
	requestID := uuid.NewString()
	start := time.Now()

	account, err := s.accountService.ResolveOrCreate(ctx, req.TelegramID, req.Username)
	if err != nil {
		return nil, err
	}

	service, err := s.catalog.GetByCode(ctx, req.ServiceCode)
	if err != nil {
		logger.LogEvent(logrus.InfoLevel, "Lookup rejected", logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
			"service":    req.ServiceCode,
			"reason":     "service not found",
		})
		return nil, err
	}

	if !account.HasQuota() {
		logger.LogEvent(logrus.InfoLevel, "Lookup rejected", logrus.Fields{
			"request_id": requestID,
			"account_id": account.ID,
			"service":    service.Code,
			"reason":     "quota exhausted",
		})
		return nil, errors.ErrQuotaExhausted
	}

	// The provider call runs with no lock held; only the finalizer below
	// touches the account row.
	result := s.provider.Lookup(ctx, service, req.IMEI)

	if err := s.usageRepo.RecordLookup(ctx, account.ID, service.ID, req.IMEI, result.Success); err != nil {
		return nil, errors.Wrap(err, "failed to record lookup")
	}

	logger.LogEvent(logrus.InfoLevel, "Lookup completed", logrus.Fields{
		"request_id":  requestID,
		"account_id":  account.ID,
		"service":     service.Code,
		"imei":        req.IMEI,
		"success":     result.Success,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return &LookupResult{
		Success:      result.Success,
		Payload:      result.Payload,
		ErrorMessage: result.ErrorMessage,
	}, nil
}
