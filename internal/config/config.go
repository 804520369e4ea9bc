package config

import (
	"fmt"
	"github.com/spf13/viper"
	"strings"
)

const EnvPrefix = "COLLECTION_"

type Config struct {
	DB  DBConfig  `mapstructure:"db"`
	Log LogConfig `mapstructure:"log"`
}

type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text or json
}

// New returns a viper instance resolving, from lowest to highest priority:
// built-in defaults, an optional .env file, COLLECTION_* environment variables
// and any flags bound later. COLLECTION_DB_DSN maps to db.dsn.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "collection.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// .env is optional; its entries only replace the built-in defaults.
	dotenv := viper.New()
	dotenv.SetConfigFile(".env")
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err == nil {
		for _, key := range dotenv.AllKeys() {
			if strings.HasPrefix(key, strings.ToLower(EnvPrefix)) {
				v.SetDefault(envKey(key), dotenv.Get(key))
			}
		}
	}

	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	return Unmarshal(New())
}

func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// envKey maps COLLECTION_DB_DSN (or collection_db_dsn) to db.dsn.
func envKey(key string) string {
	key = strings.ToLower(key)
	key = strings.TrimPrefix(key, strings.ToLower(EnvPrefix))
	key = strings.Replace(key, "_", ".", 1)
	return key
}
