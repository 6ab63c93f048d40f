package merchant

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is a configuration for the merchant application
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	LogLevel string `mapstructure:"log_level"`

	// AuthNetEnvironment selects production or sandbox ("Production" | anything else).
	AuthNetEnvironment    string `mapstructure:"authnet_environment"`
	AuthNetLoginID        string `mapstructure:"authnet_login_id"`
	AuthNetTransactionKey string `mapstructure:"authnet_transaction_key"`
	// AuthNetClientKey is the public key Accept.js needs in the browser.
	AuthNetClientKey string `mapstructure:"authnet_client_key"`
	// AuthNetEndpoint overrides the environment-selected API URL (tests, proxies).
	AuthNetEndpoint string `mapstructure:"authnet_endpoint"`

	// JournalBackend is "mem" or "pg"; pg requires DBDSN.
	JournalBackend string `mapstructure:"journal_backend"`
	DBDSN          string `mapstructure:"db_dsn"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:           "localhost:8080",
		LogLevel:           "info",
		AuthNetEnvironment: "Sandbox",
		JournalBackend:     "mem",
	}
}

var configKeys = []string{
	"http_addr",
	"log_level",
	"authnet_environment",
	"authnet_login_id",
	"authnet_transaction_key",
	"authnet_client_key",
	"authnet_endpoint",
	"journal_backend",
	"db_dsn",
}

// LoadConfig layers defaults, an optional YAML file at path and environment
// variables (HTTP_ADDR, AUTHNET_LOGIN_ID, ...), later sources winning.
func LoadConfig(path string) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("http_addr", def.HTTPAddr)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("authnet_environment", def.AuthNetEnvironment)
	v.SetDefault("journal_backend", def.JournalBackend)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows about when unmarshaling.
	for _, key := range configKeys {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.JournalBackend {
	case "mem":
	case "pg":
		if c.DBDSN == "" {
			return fmt.Errorf("db_dsn is required for pg journal backend")
		}
	default:
		return fmt.Errorf("unsupported journal_backend=%s", c.JournalBackend)
	}
	return nil
}
