// Package config loads qbuild settings. Precedence, lowest first: defaults,
// qbuild.yaml, .env, QBUILD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Konsultn-Engineering/qbuild/connector"
	"github.com/Konsultn-Engineering/qbuild/schema"
)

const EnvPrefix = "QBUILD"

var configNames = []string{"qbuild.yaml", "qbuild.yml"}

type Config struct {
	Database connector.Config `json:"database" yaml:"database" mapstructure:"database"`
	Cache    CacheConfig      `json:"cache" yaml:"cache" mapstructure:"cache"`
	Naming   NamingConfig     `json:"naming" yaml:"naming" mapstructure:"naming"`
	Debug    bool             `json:"debug" yaml:"debug" mapstructure:"debug"`
}

type CacheConfig struct {
	// Size of the compiled statement cache; 0 disables it.
	Size int `json:"size" yaml:"size" mapstructure:"size"`
}

type NamingConfig struct {
	Table string `json:"table" yaml:"table" mapstructure:"table"`
}

// TableNaming parses the configured table naming convention.
func (c *Config) TableNaming() (schema.TableNaming, error) {
	return schema.ParseTableNaming(c.Naming.Table)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", connector.DefaultDriver)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "prefer")
	v.SetDefault("database.path", "")
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.statement_cache", 0)
	v.SetDefault("database.pool.max_open", 10)
	v.SetDefault("database.pool.max_idle", 5)
	v.SetDefault("database.pool.max_lifetime", "1h")
	v.SetDefault("database.pool.max_idle_time", "30m")

	v.SetDefault("cache.size", 512)
	v.SetDefault("naming.table", schema.TableModel.String())
	v.SetDefault("debug", false)
}

// Load reads configuration. An explicit path must exist; otherwise
// qbuild.yaml is looked up in the working directory. A .env file next to
// the config file (or in the working directory) is loaded without
// overriding variables already set. Returns the config file used, if any.
func Load(path string) (*Config, string, error) {
	configPath, err := findConfigFile(path)
	if err != nil {
		return nil, "", err
	}

	envDir := "."
	if configPath != "" {
		envDir = filepath.Dir(configPath)
	}
	if err := loadDotEnv(filepath.Join(envDir, ".env")); err != nil {
		return nil, configPath, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	if _, err := cfg.TableNaming(); err != nil {
		return nil, configPath, err
	}
	return &cfg, configPath, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func findConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}
	return "", nil
}
