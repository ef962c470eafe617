package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureFlags_DefaultsEnableCoreFeatures(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.True(t, ff.ViewTrackingEnabled(nil))
	assert.True(t, ff.GeocodingEnabled(nil))
	assert.True(t, ff.IsEnabled(FeatureDashboardLiveStats, nil))
	assert.True(t, ff.IsEnabled(FeatureDashboardCache, nil))
	assert.True(t, ff.IsEnabled(FeatureAdminChangeFeed, nil))

	assert.False(t, ff.IsEnabled(FeatureExperimentalAnalytics, nil))
	assert.False(t, ff.IsEnabled(FeatureExperimentalExports, nil))
}

func TestFeatureFlags_EnvOverridesFlipFeatures(t *testing.T) {
	t.Setenv("FEATURE_VIEWS_COUNTER", "false")
	t.Setenv("FEATURE_PARTNERS_GEOCODING", "false")
	t.Setenv("FEATURE_EXPERIMENTAL_ANALYTICS", "true")

	ff := LoadFeatureFlags()

	assert.False(t, ff.ViewTrackingEnabled(nil))
	assert.False(t, ff.GeocodingEnabled(nil))
	assert.True(t, ff.IsEnabled(FeatureExperimentalAnalytics, nil))
}

func TestFeatureFlags_EnvPercentSetsRollout(t *testing.T) {
	t.Setenv("FEATURE_EXPERIMENTAL_EXPORTS", "25")

	ff := LoadFeatureFlags()

	// Sessions are bucketed consistently: the answer for a given session
	// must not flip between calls.
	ctx := &FeatureContext{SessionID: "sess-42"}
	first := ff.IsEnabled(FeatureExperimentalExports, ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ff.IsEnabled(FeatureExperimentalExports, ctx))
	}

	// A partial rollout without a session falls back to the percent itself.
	assert.True(t, ff.IsEnabled(FeatureExperimentalExports, nil))
}

func TestFeatureFlags_AdminSeesEverything(t *testing.T) {
	ff := LoadFeatureFlags()

	ctx := &FeatureContext{IsAdmin: true}
	assert.True(t, ff.IsEnabled(FeatureExperimentalAnalytics, ctx))
}

func TestFeatureFlags_UnknownFeatureIsOff(t *testing.T) {
	ff := LoadFeatureFlags()

	assert.False(t, ff.IsEnabled("dashboard.time_travel", nil))
	assert.False(t, ff.IsEnabled("dashboard.time_travel", &FeatureContext{IsAdmin: true}))
}

func TestFeatureFlags_RuntimeToggles(t *testing.T) {
	ff := LoadFeatureFlags()

	require.NoError(t, ff.DisableFeature(FeatureViewsCounter))
	assert.False(t, ff.ViewTrackingEnabled(nil))

	require.NoError(t, ff.EnableFeature(FeatureViewsCounter))
	assert.True(t, ff.ViewTrackingEnabled(nil))

	assert.Error(t, ff.EnableFeature("no.such.feature"))
}
