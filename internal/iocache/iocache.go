// Package iocache is for durable analysis caching and rename journaling.
package iocache

import (
	"sync"

	"github.com/huangsam/docname/internal/contract"
)

// CacheStoreManager manages the analysis cache and rename journal instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	analysis     contract.AnalysisCache
	journal      contract.RenameJournal
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewManager returns a manager wrapping the given stores. Callers that
// manage store lifecycles themselves use this instead of the global.
func NewManager(analysis contract.AnalysisCache, journal contract.RenameJournal) *CacheStoreManager {
	return &CacheStoreManager{analysis: analysis, journal: journal}
}

// GetAnalysisCache returns the analysis cache store.
func (mgr *CacheStoreManager) GetAnalysisCache() contract.AnalysisCache {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.analysis
}

// GetRenameJournal returns the rename journal store.
func (mgr *CacheStoreManager) GetRenameJournal() contract.RenameJournal {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.journal
}
