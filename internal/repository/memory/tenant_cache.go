package memory

import (
	"time"

	"ai-chatrelay-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// TenantCache memoizes token lookups so every authenticated request does
// not hit the database. Entries age out; deactivating a key takes effect
// within the TTL.
type TenantCache struct {
	cache *cache.Cache
}

func NewTenantCache(ttl time.Duration) *TenantCache {
	return &TenantCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *TenantCache) Save(tenant *entity.Tenant) {
	c.cache.Set(tenant.Token, tenant, cache.DefaultExpiration)
}

func (c *TenantCache) Get(token string) (*entity.Tenant, bool) {
	if x, found := c.cache.Get(token); found {
		return x.(*entity.Tenant), true
	}
	return nil, false
}
