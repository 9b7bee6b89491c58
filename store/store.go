package store

import (
	"time"

	"github.com/quillzy/quillzy/ai/cache"
	"github.com/quillzy/quillzy/internal/profile"
)

const (
	userCacheSize = 1000
	userCacheTTL  = 10 * time.Minute
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	userCache *cache.LRUCache[string, *User] // keyed by email
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:    driver,
		profile:   profile,
		userCache: cache.NewLRUCache[string, *User](userCacheSize, userCacheTTL),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}
