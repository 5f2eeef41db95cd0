package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/commerceos/backend/internal/domain/courier"
)

func TestInMemoryQuoteCache(t *testing.T) {
	ctx := context.Background()
	quotes := []courier.Quote{
		{CourierID: "1", CourierName: "DTDC Surface", FreightCharge: decimal.NewFromInt(80)},
	}

	t.Run("miss on empty cache", func(t *testing.T) {
		c := NewInMemoryQuoteCache()
		_, ok := c.Get(ctx, "quotes:t1:s1")
		assert.False(t, ok)
	})

	t.Run("hit within ttl", func(t *testing.T) {
		c := NewInMemoryQuoteCache()
		c.Set(ctx, "quotes:t1:s1", quotes, time.Minute)

		got, ok := c.Get(ctx, "quotes:t1:s1")
		assert.True(t, ok)
		assert.Equal(t, quotes, got)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewInMemoryQuoteCache()
		c.Set(ctx, "quotes:t1:s1", quotes, -time.Second)

		_, ok := c.Get(ctx, "quotes:t1:s1")
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		c := NewInMemoryQuoteCache()
		c.Set(ctx, "quotes:t1:s1", quotes, time.Minute)

		_, ok := c.Get(ctx, "quotes:t1:s2")
		assert.False(t, ok)
	})
}
