package featureflags

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartialFeeds_DisabledByDefault(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.False(t, manager.IsEnabled(ctx, PartialFeeds))
}

func TestPartialFeeds_EnabledWhenFlagSet(t *testing.T) {
	os.Setenv("TEST_FEATURE_PARTIAL_FEEDS", "true")
	defer os.Unsetenv("TEST_FEATURE_PARTIAL_FEEDS")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, PartialFeeds))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"empty", "", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_FLAG", tt.value)
			defer os.Unsetenv("TEST_FLAG")

			manager := NewEnvManager("TEST_")
			ctx := context.Background()

			assert.Equal(t, tt.expected, manager.IsEnabled(ctx, "FLAG"))
		})
	}
}

func TestEnvManager_SetEnabled(t *testing.T) {
	manager := NewEnvManager("TEST_")
	ctx := context.Background()

	assert.False(t, manager.IsEnabled(ctx, CacheWarmup))

	manager.SetEnabled(CacheWarmup, true)
	assert.True(t, manager.IsEnabled(ctx, CacheWarmup))

	manager.SetEnabled(CacheWarmup, false)
	assert.False(t, manager.IsEnabled(ctx, CacheWarmup))
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	os.Setenv("TEST_FEATURE_CACHE_WARMUP", "true")
	defer os.Unsetenv("TEST_FEATURE_CACHE_WARMUP")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, CacheWarmup))

	manager.SetEnabled(CacheWarmup, false)
	assert.False(t, manager.IsEnabled(ctx, CacheWarmup))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	manager.SetEnabled(PartialFeeds, true)

	flags := manager.GetAllFlags()
	assert.True(t, flags[PartialFeeds])
	assert.False(t, flags[CacheWarmup])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		PartialFeeds: true,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, PartialFeeds))
	assert.False(t, manager.IsEnabled(ctx, CacheWarmup))

	manager.SetEnabled(CacheWarmup, true)
	assert.True(t, manager.IsEnabled(ctx, CacheWarmup))
}

func TestStaticManager_NilFlags(t *testing.T) {
	manager := NewStaticManager(nil)
	assert.False(t, manager.IsEnabled(context.Background(), PartialFeeds))
}
