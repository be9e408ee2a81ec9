package profiling

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/leaddesk/leaddesk-dashboard/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_Custom(t *testing.T) {
	got, err := parseProfileTypes("cpu, alloc_space,mutex")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildApplicationName(t *testing.T) {
	got := buildApplicationName("leaddesk-dashboard", serviceLabels{
		name:        "leaddesk-dashboard",
		namespace:   "leaddesk",
		environment: "production",
		version:     "1.2.0",
		instance:    "inst-1",
	})
	assert.Equal(t, "leaddesk-dashboard{service_name=leaddesk-dashboard,namespace=leaddesk,environment=production,service_version=1.2.0,instance=inst-1}", got)
}

func TestBuildApplicationName_Defaults(t *testing.T) {
	got := buildApplicationName(" ", serviceLabels{name: "leadctl", namespace: "leaddesk", environment: "development", version: "dev"})
	assert.Equal(t, "leaddesk-dashboard{service_name=leadctl,namespace=leaddesk,environment=development,service_version=dev}", got)
}

func TestInitProfiler_Disabled(t *testing.T) {
	stop, err := InitProfiler(config.ProfilingConfig{}, config.ObservabilityConfig{}, "test")
	require.NoError(t, err)
	stop()
}

func TestInitProfiler_RequiresEndpoint(t *testing.T) {
	_, err := InitProfiler(config.ProfilingConfig{Enabled: true}, config.ObservabilityConfig{}, "test")
	require.Error(t, err)
}
