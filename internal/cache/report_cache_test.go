package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	caches := map[string]*ReportCache{
		"nil cache":  nil,
		"nil client": NewReportCache(nil, time.Minute),
	}
	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "dashboard", map[string]int{"total": 1}))

			var dest map[string]int
			hit, err := c.Get(ctx, "dashboard", &dest)
			require.NoError(t, err)
			assert.False(t, hit)
			assert.Nil(t, dest)
		})
	}
}
