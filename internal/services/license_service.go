// internal/services/license_service.go
package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/license-server/internal/metrics"
	"github.com/javajoker/license-server/internal/models"
)

// LicenseStore is the persistence the lifecycle needs. Implementations must
// apply ConditionalUpdate atomically per record.
type LicenseStore interface {
	Insert(ctx context.Context, license *models.License) (*models.License, error)
	FindByKey(ctx context.Context, key string) (*models.License, error)
	FindByOwner(ctx context.Context, wallet string) ([]models.License, error)
	DeleteByKey(ctx context.Context, key string) (int64, error)
	ConditionalUpdate(ctx context.Context, filter models.LicenseFilter, patch models.LicensePatch) (int64, error)
}

type LicenseService struct {
	store LicenseStore
	now   func() time.Time
}

type CreateLicenseRequest struct {
	License string `json:"license" validate:"required,license_key"`
	Wallet  string `json:"wallet" validate:"required,max=256"`
}

// Days is left to the lifecycle, which reports ErrInvalidDuration for
// non-positive values.
type DurationRequest struct {
	License string `json:"license" validate:"required,license_key"`
	Days    int64  `json:"days"`
}

type LicenseKeyRequest struct {
	License string `json:"license" validate:"required,license_key"`
}

type LicenseStatus struct {
	License       *models.License     `json:"license"`
	State         models.LicenseState `json:"state"`
	GraceDeadline *int64              `json:"grace_deadline,omitempty"`
	Renewable     bool                `json:"renewable"`
}

func NewLicenseService(store LicenseStore) *LicenseService {
	return &LicenseService{
		store: store,
		now:   time.Now,
	}
}

// WithClock replaces the time source used for expiration decisions.
func (s *LicenseService) WithClock(now func() time.Time) *LicenseService {
	s.now = now
	return s
}

// Create stores a new, never activated license. Whatever activation fields
// the caller sent are discarded.
func (s *LicenseService) Create(ctx context.Context, req *CreateLicenseRequest) (license *models.License, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("create", start, err) }(time.Now())

	license, err = s.store.Insert(ctx, &models.License{
		License:   req.License,
		Wallet:    req.Wallet,
		Activated: false,
	})
	if err != nil {
		logrus.WithError(err).WithField("license", req.License).Error("Failed to create license")
		return nil, err
	}
	return license, nil
}

func (s *LicenseService) Get(ctx context.Context, key string) (license *models.License, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("get", start, err) }(time.Now())
	return s.store.FindByKey(ctx, key)
}

// ListByOwner never distinguishes an unknown owner from one with no
// licenses; both produce an empty slice.
func (s *LicenseService) ListByOwner(ctx context.Context, wallet string) (licenses []models.License, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("list", start, err) }(time.Now())
	return s.store.FindByOwner(ctx, wallet)
}

func (s *LicenseService) Delete(ctx context.Context, key string) (deleted int64, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("delete", start, err) }(time.Now())
	return s.store.DeleteByKey(ctx, key)
}

func (s *LicenseService) Activate(ctx context.Context, key string, days int64) (license *models.License, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("activate", start, err) }(time.Now())

	expiration, ok := models.ExtendExpiration(s.now().Unix(), days)
	if !ok {
		return nil, models.ErrInvalidDuration
	}

	current, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if current.Activated {
		return nil, models.ErrLicenseAlreadyActive
	}

	// Re-check the activation flag at write time so two racing activations
	// cannot both succeed.
	modified, err := s.store.ConditionalUpdate(ctx,
		models.LicenseFilter{License: key, Activated: models.Bool(false)},
		models.LicensePatch{Activated: models.Bool(true), Expiration: models.Int64(expiration)},
	)
	if err != nil {
		logrus.WithError(err).WithField("license", key).Error("Database error during license activation")
		return nil, err
	}

	switch modified {
	case 1:
		current.Activated = true
		current.Expiration = models.Int64(expiration)
		return current, nil
	case 0:
		logrus.WithField("license", key).Warn("License activation lost a concurrent race")
		return nil, models.ErrLicenseNotFound
	default:
		return nil, models.ErrDatabase
	}
}

func (s *LicenseService) Renew(ctx context.Context, key string, days int64) (license *models.License, err error) {
	defer func(start time.Time) { metrics.ObserveOperation("renew", start, err) }(time.Now())

	if days <= 0 {
		return nil, models.ErrInvalidDuration
	}

	current, err := s.store.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if !current.Activated || current.Expiration == nil {
		return nil, models.ErrLicenseNotActivated
	}

	prior := *current.Expiration
	if models.StateAt(current, s.now()) == models.LicenseStateExpired {
		return nil, models.ErrLicenseExpired
	}

	// Extend from the prior expiration, not from now.
	renewed, ok := models.ExtendExpiration(prior, days)
	if !ok {
		return nil, models.ErrInvalidDuration
	}

	// The filter pins the expiration that was read so a concurrent renewal
	// cannot be overwritten.
	modified, err := s.store.ConditionalUpdate(ctx,
		models.LicenseFilter{License: key, Activated: models.Bool(true), Expiration: models.Int64(prior)},
		models.LicensePatch{Expiration: models.Int64(renewed)},
	)
	if err != nil {
		logrus.WithError(err).WithField("license", key).Error("Database error during license renewal")
		return nil, err
	}

	switch modified {
	case 1:
		current.Expiration = models.Int64(renewed)
		return current, nil
	case 0:
		logrus.WithField("license", key).Warn("License renewal lost a concurrent race")
		return nil, models.ErrLicenseNotFound
	default:
		return nil, models.ErrDatabase
	}
}

func (s *LicenseService) Status(ctx context.Context, key string) (*LicenseStatus, error) {
	license, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := &LicenseStatus{
		License: license,
		State:   models.StateAt(license, now),
	}
	if status.State != models.LicenseStateUnactivated {
		status.GraceDeadline = models.Int64(*license.Expiration + models.GracePeriod)
		status.Renewable = status.State == models.LicenseStateActive
	}
	return status, nil
}
