package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crossrank/model"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.K)
	assert.Equal(t, "L1", cfg.Measure)
	assert.True(t, cfg.Normalize)
	assert.Equal(t, StoreLocal, cfg.Store.Type)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crossrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
k: 10
measure: l2
indices: ["news/*.arff", "blogs.arff"]
normalize: false
include_class: true
store:
  type: s3
  bucket: corpora
  prefix: indices/
limits:
  memory_bytes: 1048576
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.K)
	assert.Equal(t, "l2", cfg.Measure)
	assert.Equal(t, []string{"news/*.arff", "blogs.arff"}, cfg.Indices)
	assert.False(t, cfg.Normalize)
	assert.True(t, cfg.IncludeClass)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, StoreS3, cfg.Store.Type)
	assert.Equal(t, "corpora", cfg.Store.Bucket)
	assert.Equal(t, int64(1048576), cfg.Limits.MemoryBytes)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("k: [1"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "invalid YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"K", func(c *Config) { c.K = 0 }, "k must be positive"},
		{"Measure", func(c *Config) { c.Measure = "cosine" }, "must be L1 or L2"},
		{"Workers", func(c *Config) { c.Workers = -1 }, "workers"},
		{"Format", func(c *Config) { c.Format = "html" }, "unknown format"},
		{"StoreType", func(c *Config) { c.Store.Type = "ftp" }, "unknown store type"},
		{"Bucket", func(c *Config) { c.Store.Type = StoreS3 }, "bucket is required"},
		{"Endpoint", func(c *Config) { c.Store = Store{Type: StoreMinio, Bucket: "b"} }, "endpoint is required"},
		{"Limits", func(c *Config) { c.Limits.MemoryBytes = -1 }, "limits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrConfiguration)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Indices = []string{"a.arff"}
	data, err := Marshal(cfg)
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestExpandPath(t *testing.T) {
	p, err := ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", p)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	p, err = ExpandPath("~/x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x"), p)
}
