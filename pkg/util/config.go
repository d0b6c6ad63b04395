package util

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Strategy      string `mapstructure:"strategy"`
	Distance      string `mapstructure:"distance"`
	ForwardSlack  bool   `mapstructure:"forward_slack"`
	CheckRoutes   bool   `mapstructure:"check_routes"`
	Workers       int    `mapstructure:"workers"`
	CostCacheSize int    `mapstructure:"cost_cache_size"`
	Seed          uint64 `mapstructure:"seed"`
	Moves         int    `mapstructure:"moves"`
	Nodes         int    `mapstructure:"nodes"`
	Vehicles      int    `mapstructure:"vehicles"`
	Branches      int    `mapstructure:"branches"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("strategy", "array")
	v.SetDefault("distance", "euclidean")
	v.SetDefault("forward_slack", false)
	v.SetDefault("check_routes", false)
	v.SetDefault("workers", 4)
	v.SetDefault("cost_cache_size", 1<<16)
	v.SetDefault("seed", 42)
	v.SetDefault("moves", 1000)
	v.SetDefault("nodes", 50)
	v.SetDefault("vehicles", 5)
	v.SetDefault("branches", 4)
}

// LoadConfig reads the config file at path (or ./data/config.* when path is empty).
// Environment variables prefixed with VRPTOUR_ override file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("VRPTOUR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./data/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("fatal error config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.Workers <= 0 {
		return Config{}, WrapErrorf(nil, ErrBadParamInput, "workers must be positive, got %d", cfg.Workers)
	}
	return cfg, nil
}
