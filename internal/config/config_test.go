package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "molnet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func env(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Network.TopK)
	assert.Equal(t, 0.65, cfg.Network.MinScore)
	assert.Equal(t, 30.0, cfg.Network.DefaultRadius)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
network:
  top_k: 5
  min_score: 0.7
logging:
  level: debug
store:
  db_path: /tmp/runs.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Network.TopK)
	assert.Equal(t, 0.7, cfg.Network.MinScore)
	assert.Equal(t, 1000, cfg.Network.Iterations, "unset fields keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/runs.db", cfg.Store.DBPath)
	assert.Contains(t, cfg.LoadedFrom, path)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidFile(t *testing.T) {
	_, err := Load(writeFile(t, "network: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "network:\n  iterations: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoadEnv_Overrides(t *testing.T) {
	cfg := Default()
	err := cfg.loadEnv(env(map[string]string{
		"MOLNET_TOP_K":      "3",
		"MOLNET_MIN_SCORE":  "0.5",
		"MOLNET_SEED":       "7",
		"MOLNET_LOG_FORMAT": "console",
		"MOLNET_ADDR":       " :9090 ",
		"MOLNET_WORKERS":    "",
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Network.TopK)
	assert.Equal(t, 0.5, cfg.Network.MinScore)
	assert.Equal(t, int64(7), cfg.Network.Seed)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 1, cfg.Network.Workers, "empty values are ignored")
	assert.Contains(t, cfg.LoadedFrom, "environment")
}

func TestLoadEnv_BadNumbers(t *testing.T) {
	cfg := Default()
	err := cfg.loadEnv(env(map[string]string{
		"MOLNET_TOP_K":     "many",
		"MOLNET_MIN_SCORE": "high",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MOLNET_TOP_K")
	assert.Contains(t, err.Error(), "MOLNET_MIN_SCORE")
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"negative top-k": func(c *Config) { c.Network.TopK = -1 },
		"score > 1":      func(c *Config) { c.Network.MinScore = 1.5 },
		"zero radius":    func(c *Config) { c.Network.DefaultRadius = 0 },
		"zero workers":   func(c *Config) { c.Network.Workers = 0 },
		"log level":      func(c *Config) { c.Logging.Level = "trace" },
		"log format":     func(c *Config) { c.Logging.Format = "xml" },
		"no db":          func(c *Config) { c.Store.DBPath = "" },
		"no addr":        func(c *Config) { c.Server.Addr = "" },
	}
	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalid, name)
	}
}
