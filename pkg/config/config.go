package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/generator"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	ServerAddr     string   `toml:"server_addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	LogFormat      string   `toml:"log_format"` // text または json
	LogLevel       string   `toml:"log_level"`

	GeminiAPIKey string `toml:"gemini_api_key"`
	GeminiModel  string `toml:"gemini_model"`

	ZoraAPIKey  string `toml:"zora_api_key"`
	UploaderURL string `toml:"uploader_url"`
	GCSBucket   string `toml:"gcs_bucket"`

	RPCURL         string `toml:"rpc_url"`
	ChainID        uint64 `toml:"chain_id"`
	FactoryAddress string `toml:"factory_address"`
	Currency       string `toml:"currency"`
	GasMultiplier  uint64 `toml:"gas_multiplier"`
	PrivateKey     string `toml:"private_key"`

	APIBaseURL string `toml:"api_base_url"`
}

// Default は既定値を持つ Config を返します。
func Default() Config {
	return Config{
		ServerAddr:    ":8080",
		LogFormat:     "text",
		LogLevel:      "info",
		GeminiModel:   generator.DefaultModel,
		RPCURL:        "https://mainnet.base.org",
		ChainID:       domain.BaseMainnetChainID,
		Currency:      string(domain.CurrencyZORA),
		GasMultiplier: domain.DefaultGasMultiplier,
		APIBaseURL:    "http://localhost:8080",
	}
}

// Load は既定値、TOML ファイル、環境変数の順に設定を重ねて読み込みます。
// path が空の場合はファイルを読みません。.env と .env.local は存在すれば環境変数として読み込みます。
func Load(path string) (*Config, error) {
	// .env がなくても環境変数はコンテナなどから渡されるので、エラーは無視する
	_ = godotenv.Load(".env.local", ".env")

	cfg := Default()
	if path != "" {
		if err := loadFile(&cfg, path); err != nil {
			return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return nil, fmt.Errorf("環境変数の読み込みに失敗しました: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定が不正です: %w", err)
	}
	return &cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if !strings.HasSuffix(path, ".toml") {
		return errors.New("config file must be a toml file")
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// Marshal は設定を TOML にエンコードします。秘密情報は出力しません。
func (c Config) Marshal() ([]byte, error) {
	c.GeminiAPIKey = ""
	c.ZoraAPIKey = ""
	c.PrivateKey = ""
	return toml.Marshal(c)
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	u64 := func(dst *uint64, key string) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str(&cfg.ServerAddr, "SERVER_ADDR")
	str(&cfg.LogFormat, "LOG_FORMAT")
	str(&cfg.LogLevel, "LOG_LEVEL")
	str(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	str(&cfg.GeminiModel, "GEMINI_MODEL")
	str(&cfg.ZoraAPIKey, "NEXT_PUBLIC_ZORA_API_KEY", "ZORA_API_KEY")
	str(&cfg.UploaderURL, "UPLOADER_URL")
	str(&cfg.GCSBucket, "GCS_BUCKET")
	str(&cfg.RPCURL, "BASE_RPC_URL")
	str(&cfg.FactoryAddress, "COIN_FACTORY_ADDRESS")
	str(&cfg.Currency, "COIN_CURRENCY")
	str(&cfg.PrivateKey, "WALLET_PRIVATE_KEY")
	str(&cfg.APIBaseURL, "API_BASE_URL")

	if v, ok := lookup("ALLOWED_ORIGINS"); ok && v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if err := u64(&cfg.ChainID, "CHAIN_ID"); err != nil {
		return err
	}
	return u64(&cfg.GasMultiplier, "GAS_MULTIPLIER")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate は設定値の整合性を確認します。
func (c Config) Validate() error {
	var errs []error
	if c.ChainID == 0 {
		errs = append(errs, errors.New("chain_id is required"))
	}
	if _, err := domain.ParseDeployCurrency(c.Currency); err != nil {
		errs = append(errs, err)
	}
	if c.GasMultiplier < 100 {
		errs = append(errs, fmt.Errorf("gas_multiplier must be at least 100, got %d", c.GasMultiplier))
	}
	if c.FactoryAddress != "" && !common.IsHexAddress(c.FactoryAddress) {
		errs = append(errs, fmt.Errorf("factory_address is not a valid address: %q", c.FactoryAddress))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	for _, f := range []struct{ name, raw string }{
		{"uploader_url", c.UploaderURL},
		{"api_base_url", c.APIBaseURL},
		{"rpc_url", c.RPCURL},
	} {
		if f.raw == "" {
			continue
		}
		if u, err := url.Parse(f.raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s is not a valid URL: %q", f.name, f.raw))
		}
	}
	return errors.Join(errs...)
}

// DeployCurrency は Currency を domain.DeployCurrency として返します。Validate 済みであることが前提です。
func (c Config) DeployCurrency() domain.DeployCurrency {
	cur, _ := domain.ParseDeployCurrency(c.Currency)
	return cur
}

// Factory はファクトリーアドレスを返します。未設定の場合はゼロアドレスです。
func (c Config) Factory() common.Address {
	if c.FactoryAddress == "" {
		return common.Address{}
	}
	return common.HexToAddress(c.FactoryAddress)
}
