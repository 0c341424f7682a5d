// internal/database/memory_store.go
package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/javajoker/license-server/internal/models"
)

// MemoryLicenseStore is an in-process store for local runs and tests. It
// gives the same per-record atomicity as the Mongo store: a conditional
// update checks its filter and writes under one lock.
type MemoryLicenseStore struct {
	mu       sync.RWMutex
	licenses map[string]*models.License
}

func NewMemoryLicenseStore() *MemoryLicenseStore {
	return &MemoryLicenseStore{licenses: make(map[string]*models.License)}
}

func (s *MemoryLicenseStore) Insert(ctx context.Context, license *models.License) (*models.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, dbError("insert", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.licenses[license.License]; exists {
		return nil, dbError("insert", fmt.Errorf("duplicate license %q", license.License))
	}
	s.licenses[license.License] = license.Clone()
	return license.Clone(), nil
}

func (s *MemoryLicenseStore) FindByKey(ctx context.Context, key string) (*models.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, dbError("find", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	license, ok := s.licenses[key]
	if !ok {
		return nil, models.ErrLicenseNotFound
	}
	return license.Clone(), nil
}

func (s *MemoryLicenseStore) FindByOwner(ctx context.Context, wallet string) ([]models.License, error) {
	if err := ctx.Err(); err != nil {
		return nil, dbError("find by owner", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	licenses := make([]models.License, 0)
	for _, license := range s.licenses {
		if license.Wallet == wallet {
			licenses = append(licenses, *license.Clone())
		}
	}
	sort.Slice(licenses, func(i, j int) bool {
		return licenses[i].License < licenses[j].License
	})
	return licenses, nil
}

func (s *MemoryLicenseStore) DeleteByKey(ctx context.Context, key string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, dbError("delete", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.licenses[key]; !ok {
		return 0, models.ErrLicenseDoesNotExist
	}
	delete(s.licenses, key)
	return 1, nil
}

func (s *MemoryLicenseStore) ConditionalUpdate(ctx context.Context, filter models.LicenseFilter, patch models.LicensePatch) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, dbError("update", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	license, ok := s.licenses[filter.License]
	if !ok || !filter.Matches(license) {
		return 0, nil
	}
	if patch.Apply(license) {
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryLicenseStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return dbError("ping", err)
	}
	return nil
}
