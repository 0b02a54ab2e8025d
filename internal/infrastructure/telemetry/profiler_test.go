package telemetry

import (
	"sync"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	cfg := ProfilerConfig{
		Enabled:         false,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "catalog-test",
	}

	p, err := NewProfiler(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.False(t, p.IsEnabled())
	assert.Equal(t, "catalog-test", p.GetConfig().ApplicationName)
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  ProfilerConfig
		want error
	}{
		{
			name: "missing server address",
			cfg:  ProfilerConfig{Enabled: true, ApplicationName: "catalog-test"},
			want: errProfilerAddress,
		},
		{
			name: "missing application name",
			cfg:  ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"},
			want: errProfilerAppName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProfiler(tt.cfg, zaptest.NewLogger(t))
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, p)
		})
	}
}

func TestProfiler_StopConcurrent(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.Stop())
		}()
	}
	wg.Wait()
}

func TestBuildProfileTypes(t *testing.T) {
	base := buildProfileTypes(ProfilerConfig{})
	assert.Len(t, base, 6)
	assert.Contains(t, base, pyroscope.ProfileCPU)
	assert.NotContains(t, base, pyroscope.ProfileMutexCount)
	assert.NotContains(t, base, pyroscope.ProfileBlockCount)

	all := buildProfileTypes(ProfilerConfig{MutexProfileRate: 5, BlockProfileRate: 5})
	assert.Len(t, all, 10)
	assert.Contains(t, all, pyroscope.ProfileMutexDuration)
	assert.Contains(t, all, pyroscope.ProfileBlockDuration)
}

func TestProfilerTags(t *testing.T) {
	t.Setenv("POD_NAME", "catalog-7d9f")

	tags := profilerTags(map[string]string{"version": "1.2.0", "env": ""})
	assert.Equal(t, "1.2.0", tags["version"])
	assert.Equal(t, "catalog-7d9f", tags["hostname"])
	_, hasEnv := tags["env"]
	assert.False(t, hasEnv)
}
