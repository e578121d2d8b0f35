package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoad(t *testing.T) {
	t.Run("Success/DefaultsWithoutFile", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		assert.Equal(t, domain.BaseMainnetChainID, cfg.ChainID)
		assert.Equal(t, domain.CurrencyZORA, cfg.DeployCurrency())
		assert.Equal(t, uint64(120), cfg.GasMultiplier)
	})

	t.Run("Success/FileThenEnv", func(t *testing.T) {
		path := writeFile(t, "coinkit.toml", `
server_addr = ":9090"
allowed_origins = ["https://a.example"]
gcs_bucket = "from-file"
gas_multiplier = 150
`)
		t.Setenv("GCS_BUCKET", "from-env")
		t.Setenv("GEMINI_API_KEY", "gk")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, ":9090", cfg.ServerAddr)
		assert.Equal(t, []string{"https://a.example"}, cfg.AllowedOrigins)
		assert.Equal(t, "from-env", cfg.GCSBucket)
		assert.Equal(t, uint64(150), cfg.GasMultiplier)
		assert.Equal(t, "gk", cfg.GeminiAPIKey)
	})

	t.Run("Failure/NotTOML", func(t *testing.T) {
		path := writeFile(t, "coinkit.yaml", "server_addr: x")
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Failure/UnknownField", func(t *testing.T) {
		path := writeFile(t, "coinkit.toml", `servr_addr = ":1"`)
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("Failure/InvalidAfterEnv", func(t *testing.T) {
		t.Setenv("GAS_MULTIPLIER", "90")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gas_multiplier")
	})
}

func TestApplyEnv(t *testing.T) {
	t.Run("NEXT_PUBLIC_ZORA_API_KEY が優先されるのだ", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, applyEnv(&cfg, envMap(map[string]string{
			"NEXT_PUBLIC_ZORA_API_KEY": "public",
			"ZORA_API_KEY":             "private",
		})))
		assert.Equal(t, "public", cfg.ZoraAPIKey)
	})

	t.Run("ZORA_API_KEY にフォールバックするのだ", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, applyEnv(&cfg, envMap(map[string]string{"ZORA_API_KEY": "private"})))
		assert.Equal(t, "private", cfg.ZoraAPIKey)
	})

	t.Run("Success/OriginsAreSplitAndTrimmed", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, applyEnv(&cfg, envMap(map[string]string{"ALLOWED_ORIGINS": " https://a.example , ,https://b.example"})))
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	})

	t.Run("Failure/NonNumericChainID", func(t *testing.T) {
		cfg := Default()
		err := applyEnv(&cfg, envMap(map[string]string{"CHAIN_ID": "base"}))
		assert.ErrorContains(t, err, "CHAIN_ID")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "zero chain", mutate: func(c *Config) { c.ChainID = 0 }, wantErr: "chain_id"},
		{name: "bad currency", mutate: func(c *Config) { c.Currency = "DOGE" }, wantErr: "currency"},
		{name: "low gas multiplier", mutate: func(c *Config) { c.GasMultiplier = 99 }, wantErr: "gas_multiplier"},
		{name: "bad factory", mutate: func(c *Config) { c.FactoryAddress = "0x123" }, wantErr: "factory_address"},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: "log_format"},
		{name: "bad uploader url", mutate: func(c *Config) { c.UploaderURL = "not a url" }, wantErr: "uploader_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Marshal(t *testing.T) {
	cfg := Default()
	cfg.GeminiAPIKey = "secret"
	cfg.PrivateKey = "0xabc"

	data, err := cfg.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "0xabc")

	var back Config
	require.NoError(t, toml.Unmarshal(data, &back))
	assert.Equal(t, cfg.ServerAddr, back.ServerAddr)
	assert.Equal(t, cfg.ChainID, back.ChainID)
}

func TestConfig_Factory(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0x0000000000000000000000000000000000000000", cfg.Factory().Hex())

	cfg.FactoryAddress = "0x777777751622c0d3258f214F9DF38E35BF45baF3"
	assert.Equal(t, "0x777777751622c0d3258f214F9DF38E35BF45baF3", cfg.Factory().Hex())
}
