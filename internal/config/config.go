package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Registry *RegistryConfig `mapstructure:"registry"`
	Pinning  *PinningConfig  `mapstructure:"pinning"`
	Indexer  *IndexerConfig  `mapstructure:"indexer"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	BaseURL            string   `mapstructure:"base_url"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RegistryConfig seeds the on-ledger registry configuration row on first boot.
// Prices are decimal strings because they can exceed what an int64 holds.
type RegistryConfig struct {
	OwnerAddress    string `mapstructure:"owner_address"`
	RegistryAddress string `mapstructure:"registry_address"`
	TreasuryAddress string `mapstructure:"treasury_address"`
	NativePrice     string `mapstructure:"native_price"`
}

type PinningConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	GatewayURL string `mapstructure:"gateway_url"`
	APIKey     string `mapstructure:"api_key"`
}

type IndexerConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

func Load(configFile string) (*AppConfig, error) {
	viper.SetConfigFile(configFile)

	// Allow env vars like API_JWT_SIGNING_KEY or PINNING_API_KEY to override the file.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed", zap.String("file", e.Name))
	})

	var conf AppConfig
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	return &conf, nil
}
