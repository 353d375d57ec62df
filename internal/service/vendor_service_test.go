package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/repository"
)

func TestVendorService_ListVendors_NoCache(t *testing.T) {
	repo := new(mockVendorRepo)
	svc := NewVendorService(repo, NewCacheService(), 0)
	ctx := context.Background()

	vendors := []models.VendorPlatform{{ID: uuid.New(), Name: "AlphaSights"}, {ID: uuid.New(), Name: "GLG"}}
	repo.On("ListActive", ctx).Return(vendors, nil).Twice()

	for i := 0; i < 2; i++ {
		items, err := svc.ListVendors(ctx)
		require.NoError(t, err)
		assert.Equal(t, vendors, items)
	}
	repo.AssertNumberOfCalls(t, "ListActive", 2)
}

func TestVendorService_ListVendors_Cached(t *testing.T) {
	repo := new(mockVendorRepo)
	svc := NewVendorService(repo, NewCacheService(), time.Minute)
	ctx := context.Background()

	vendors := []models.VendorPlatform{{ID: uuid.New(), Name: "GLG"}}
	repo.On("ListActive", ctx).Return(vendors, nil).Once()

	for i := 0; i < 3; i++ {
		items, err := svc.ListVendors(ctx)
		require.NoError(t, err)
		assert.Equal(t, vendors, items)
	}
	repo.AssertNumberOfCalls(t, "ListActive", 1)
}

func TestVendorService_GetVendor_NotFoundIsNotCached(t *testing.T) {
	repo := new(mockVendorRepo)
	svc := NewVendorService(repo, NewCacheService(), time.Minute)
	ctx := context.Background()
	id := uuid.New()

	repo.On("GetByID", ctx, id).Return(nil, repository.ErrVendorNotFound).Twice()

	for i := 0; i < 2; i++ {
		_, err := svc.GetVendor(ctx, id)
		assert.ErrorIs(t, err, apperror.ErrVendorNotFound)
	}
	repo.AssertNumberOfCalls(t, "GetByID", 2)
}

func TestCacheService_ExpiryAndPrefix(t *testing.T) {
	cache := NewCacheService()
	now := time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set(VendorListCacheKey(), "list", time.Minute)
	cache.Set(VendorCacheKey("a"), "a", time.Hour)
	cache.Set("other", 1, time.Hour)

	v, ok := cache.Get(VendorListCacheKey())
	require.True(t, ok)
	assert.Equal(t, "list", v)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get(VendorListCacheKey())
	assert.False(t, ok)

	cache.evictExpired()
	assert.Equal(t, 2, cache.Len())

	cache.InvalidateByPrefix("vendors:")
	assert.Equal(t, 1, cache.Len())
}

func TestCacheService_RunCleanupStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := NewCacheService()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cache.RunCleanup(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}
