package memory

import (
	"testing"
	"time"

	"ai-chatrelay-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantCacheSaveGet(t *testing.T) {
	cache := NewTenantCache(time.Minute)
	tenant := &entity.Tenant{
		Id:     uuid.New(),
		Token:  "crk_abc",
		Name:   "cached",
		Active: true,
	}

	_, found := cache.Get(tenant.Token)
	assert.False(t, found)

	cache.Save(tenant)
	got, found := cache.Get(tenant.Token)
	require.True(t, found)
	assert.Equal(t, tenant.Id, got.Id)
}

func TestTenantCacheEntriesExpire(t *testing.T) {
	cache := NewTenantCache(20 * time.Millisecond)
	tenant := &entity.Tenant{Id: uuid.New(), Token: "crk_short-lived", Active: true}

	cache.Save(tenant)
	_, found := cache.Get(tenant.Token)
	require.True(t, found)

	time.Sleep(40 * time.Millisecond)
	_, found = cache.Get(tenant.Token)
	assert.False(t, found)
}
