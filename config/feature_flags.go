package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the dashboard.
// Supports gradual rollout by visitor session and per-admin overrides,
// so new dashboard behavior can be trialled before office-wide launch.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	adminOverrides map[string]map[string]bool // adminID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Visitors are assigned based on hash of their session ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	SessionID string // visitor session (rollout bucketing)
	AdminID   string // authenticated admin, if any
	IsAdmin   bool
}

// Predefined feature flag names.
const (
	// === Dashboard Features ===
	FeatureDashboardLiveStats = "dashboard.live_stats" // derive stats from live data instead of the stored snapshot
	FeatureDashboardCache     = "dashboard.cache"      // Redis caching of the stats payload
	FeatureDashboardMap       = "dashboard.map"        // partner world map endpoint data

	// === View Counter Features ===
	FeatureViewsCounter = "views.counter" // record and expose dashboard views
	FeatureViewsDedup   = "views.dedup"   // per-session daily deduplication

	// === Partner Features ===
	FeaturePartnersGeocoding  = "partners.geocoding"  // resolve partner coordinates via Nominatim
	FeaturePartnersEngagement = "partners.engagement" // engagement score in partner listings

	// === Admin Features ===
	FeatureAdminChangeFeed = "admin.change_feed" // recent-changes feed for the admin panel

	// === Experimental Features ===
	FeatureExperimentalAnalytics = "experimental.analytics" // advanced analytics dashboard
	FeatureExperimentalExports   = "experimental.exports"   // CSV/report exports
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:       make(map[string]*Feature),
		adminOverrides: make(map[string]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Dashboard features - enabled by default
	ff.features[FeatureDashboardLiveStats] = &Feature{
		Name:           FeatureDashboardLiveStats,
		Description:    "Derive dashboard stats from live partner and mobility data",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardCache] = &Feature{
		Name:           FeatureDashboardCache,
		Description:    "Cache the dashboard stats payload in Redis",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardMap] = &Feature{
		Name:           FeatureDashboardMap,
		Description:    "Serve partner coordinates for the world map",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// View counter features
	ff.features[FeatureViewsCounter] = &Feature{
		Name:           FeatureViewsCounter,
		Description:    "Record and expose dashboard view counts",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureViewsDedup] = &Feature{
		Name:           FeatureViewsDedup,
		Description:    "Count each session at most once per day",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Partner features
	ff.features[FeaturePartnersGeocoding] = &Feature{
		Name:           FeaturePartnersGeocoding,
		Description:    "Resolve partner coordinates via Nominatim",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeaturePartnersEngagement] = &Feature{
		Name:           FeaturePartnersEngagement,
		Description:    "Include engagement scores in partner listings",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Admin features
	ff.features[FeatureAdminChangeFeed] = &Feature{
		Name:           FeatureAdminChangeFeed,
		Description:    "Recent-changes feed in the admin panel",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Experimental features - disabled by default
	ff.features[FeatureExperimentalAnalytics] = &Feature{
		Name:           FeatureExperimentalAnalytics,
		Description:    "Advanced analytics dashboard",
		Enabled:        false,
		RolloutPercent: 0,
	}

	ff.features[FeatureExperimentalExports] = &Feature{
		Name:           FeatureExperimentalExports,
		Description:    "CSV and report exports",
		Enabled:        false,
		RolloutPercent: 0,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_VIEWS_COUNTER=true
// Example: FEATURE_EXPERIMENTAL_ANALYTICS=25 (25% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "views.counter" -> "FEATURE_VIEWS_COUNTER"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check admin overrides first
	if ctx != nil && ctx.AdminID != "" {
		if overrides, ok := ff.adminOverrides[ctx.AdminID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.SessionID != "" {
		return ff.isInRollout(ctx.SessionID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a session is in the rollout percentage.
// Uses consistent hashing so sessions stay in their bucket.
func (ff *FeatureFlags) isInRollout(sessionID, featureName string, percent int) bool {
	// Create a consistent hash for this session+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(sessionID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetAdminOverride sets a feature override for a specific admin.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetAdminOverride(adminID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.adminOverrides[adminID]; !ok {
		ff.adminOverrides[adminID] = make(map[string]bool)
	}
	ff.adminOverrides[adminID][featureName] = enabled
}

// ClearAdminOverrides removes all overrides for an admin.
func (ff *FeatureFlags) ClearAdminOverrides(adminID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.adminOverrides, adminID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// ViewTrackingEnabled checks if view counting is active at all.
func (ff *FeatureFlags) ViewTrackingEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureViewsCounter, ctx)
}

// GeocodingEnabled checks if partner coordinate lookups are active.
func (ff *FeatureFlags) GeocodingEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeaturePartnersGeocoding, ctx) &&
		ff.IsEnabled(FeatureDashboardMap, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
