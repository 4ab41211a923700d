package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATASET_PATH", "testdata/stations.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "testdata/stations.csv", cfg.DatasetPath)
	assert.Equal(t, 0.1, cfg.SampleFraction)
	assert.Nil(t, cfg.Seeds)
	assert.Equal(t, 64, cfg.MemoCacheSize)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_PATH", "/data/treated.csv")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("SAMPLE_FRACTION", "0.25")
	t.Setenv("SEEDS", "42, 7,1000")
	t.Setenv("MEMO_CACHE_SIZE", "128")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/treated.csv", cfg.DatasetPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0.25, cfg.SampleFraction)
	assert.Equal(t, []int64{42, 7, 1000}, cfg.Seeds)
	assert.Equal(t, 128, cfg.MemoCacheSize)
}

func TestLoad_MissingDatasetPath(t *testing.T) {
	t.Setenv("DATASET_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_PATH")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("DATASET_PATH", "x.csv")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidSampleFraction(t *testing.T) {
	for _, v := range []string{"0", "-0.5", "1.5", "abc"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("DATASET_PATH", "x.csv")
			t.Setenv("SAMPLE_FRACTION", v)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "SAMPLE_FRACTION")
		})
	}
}

func TestLoad_InvalidSeeds(t *testing.T) {
	t.Setenv("DATASET_PATH", "x.csv")
	t.Setenv("SEEDS", "42,abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SEEDS")
}

func TestLoad_InvalidMemoCacheSizeFallsBack(t *testing.T) {
	t.Setenv("DATASET_PATH", "x.csv")
	t.Setenv("MEMO_CACHE_SIZE", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MemoCacheSize)
}
