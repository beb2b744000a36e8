package iocache

import (
	"context"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetAnalysisCache implements the CacheManager interface.
func (m *MockCacheManager) GetAnalysisCache() contract.AnalysisCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.AnalysisCache)
	return cache
}

// GetRenameJournal implements the CacheManager interface.
func (m *MockCacheManager) GetRenameJournal() contract.RenameJournal {
	ret := m.Called()
	journal, _ := ret.Get(0).(contract.RenameJournal)
	return journal
}

// MockAnalysisCache is a mock implementation of AnalysisCache for testing.
type MockAnalysisCache struct {
	mock.Mock
}

var _ contract.AnalysisCache = &MockAnalysisCache{} // Compile-time check

// Lookup implements the AnalysisCache interface.
func (m *MockAnalysisCache) Lookup(ctx context.Context, fingerprint string) (schema.CacheEntry, bool, error) {
	args := m.Called(ctx, fingerprint)
	return args.Get(0).(schema.CacheEntry), args.Bool(1), args.Error(2)
}

// Store implements the AnalysisCache interface.
func (m *MockAnalysisCache) Store(ctx context.Context, entry schema.CacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// RefreshPathHint implements the AnalysisCache interface.
func (m *MockAnalysisCache) RefreshPathHint(ctx context.Context, fingerprint, path string) error {
	args := m.Called(ctx, fingerprint, path)
	return args.Error(0)
}

// Delete implements the AnalysisCache interface.
func (m *MockAnalysisCache) Delete(ctx context.Context, fingerprint string) error {
	args := m.Called(ctx, fingerprint)
	return args.Error(0)
}

// GetStatus implements the AnalysisCache interface.
func (m *MockAnalysisCache) GetStatus(ctx context.Context) (schema.CacheStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the AnalysisCache interface.
func (m *MockAnalysisCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRenameJournal is a mock implementation of RenameJournal for testing.
type MockRenameJournal struct {
	mock.Mock
}

var _ contract.RenameJournal = &MockRenameJournal{} // Compile-time check

// Record implements the RenameJournal interface.
func (m *MockRenameJournal) Record(ctx context.Context, rec schema.JournalRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// List implements the RenameJournal interface.
func (m *MockRenameJournal) List(ctx context.Context) ([]schema.JournalRecord, error) {
	args := m.Called(ctx)
	return args.Get(0).([]schema.JournalRecord), args.Error(1)
}

// GetStatus implements the RenameJournal interface.
func (m *MockRenameJournal) GetStatus(ctx context.Context) (schema.JournalStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.JournalStatus), args.Error(1)
}

// Close implements the RenameJournal interface.
func (m *MockRenameJournal) Close() error {
	args := m.Called()
	return args.Error(0)
}
