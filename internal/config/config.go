package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds engine configuration loaded from flags, env, or config file.
type Config struct {
	PoolsFile         string
	RiskFile          string
	BindingsFile      string
	PGDSN             string
	RPCURL            string
	Intermediary      string
	SlippageTolerance float64
	RefreshInterval   time.Duration
	AuditLog          string
	LogLevel          string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("pools-file", "./data/pools.json")
	v.SetDefault("risk-file", "./data/risk.json")
	v.SetDefault("intermediary", "USDC")
	v.SetDefault("slippage-tolerance", 0.005)
	v.SetDefault("refresh-interval", time.Minute)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		PoolsFile:         v.GetString("pools-file"),
		RiskFile:          v.GetString("risk-file"),
		BindingsFile:      v.GetString("bindings-file"),
		PGDSN:             v.GetString("pg-dsn"),
		RPCURL:            v.GetString("rpc"),
		Intermediary:      v.GetString("intermediary"),
		SlippageTolerance: v.GetFloat64("slippage-tolerance"),
		RefreshInterval:   v.GetDuration("refresh-interval"),
		AuditLog:          v.GetString("audit-log"),
		LogLevel:          v.GetString("log-level"),
	}

	if cfg.SlippageTolerance < 0 || cfg.SlippageTolerance >= 1 {
		return Config{}, fmt.Errorf("slippage tolerance %f out of [0,1)", cfg.SlippageTolerance)
	}

	return cfg, nil
}
