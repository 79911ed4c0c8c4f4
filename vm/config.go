package vm

import (
	"fmt"

	"github.com/govm-net/hookvm/managed"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/storage"
	"github.com/govm-net/hookvm/txcontext"
	"github.com/spf13/viper"
)

// Config represents engine configuration
type Config struct {
	// MaxCallDepth bounds nested sub-calls. The top-level call has depth 0.
	MaxCallDepth      int    `mapstructure:"max_call_depth"`
	ReservedKeyPrefix string `mapstructure:"reserved_key_prefix"`
	MaxBufferLength   int    `mapstructure:"max_buffer_length"`
	BigFloatPrecision uint   `mapstructure:"big_float_precision"`
	NumShards         uint32 `mapstructure:"num_shards"`
	MaxLogTopics      int    `mapstructure:"max_log_topics"`
	// ClearTokenDataOnMissing resets the output handles of the token data
	// hook when the token does not exist.
	ClearTokenDataOnMissing bool `mapstructure:"clear_token_data_on_missing"`
	// DeveloperFeePercentage of the gas paid for a successful call to a
	// contract is credited to its developer rewards.
	DeveloperFeePercentage uint64 `mapstructure:"developer_fee_percentage"`
	// AutoResolveAsync makes ExecuteTx run a pending async call and its
	// callback right away.
	AutoResolveAsync bool `mapstructure:"auto_resolve_async"`

	WorldType   string         `mapstructure:"world_type"`   // World backend
	WorldParams map[string]any `mapstructure:"world_params"` // World backend parameters
	// SchedulePath names a gas schedule file; empty means the defaults.
	SchedulePath string `mapstructure:"schedule_path"`
}

// DefaultConfig returns an in-memory configuration with the default limits.
func DefaultConfig() *Config {
	return &Config{
		MaxCallDepth:           8,
		ReservedKeyPrefix:      storage.DefaultReservedPrefix,
		MaxBufferLength:        managed.DefaultConfig().MaxBufferLength,
		BigFloatPrecision:      managed.DefaultConfig().BigFloatPrecision,
		NumShards:              3,
		MaxLogTopics:           4,
		DeveloperFeePercentage: 30,
		WorldType:              string(state.MemoryWorldType),
	}
}

// LoadConfig reads a configuration file on top of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("config is nil")
	}
	if config.MaxCallDepth <= 0 {
		return fmt.Errorf("invalid max call depth: %d", config.MaxCallDepth)
	}
	if config.ReservedKeyPrefix == "" {
		return fmt.Errorf("reserved key prefix is empty")
	}
	if config.MaxBufferLength <= 0 {
		return fmt.Errorf("invalid max buffer length: %d", config.MaxBufferLength)
	}
	if config.BigFloatPrecision == 0 {
		return fmt.Errorf("big float precision is zero")
	}
	if config.NumShards == 0 {
		return fmt.Errorf("number of shards is zero")
	}
	if config.DeveloperFeePercentage > 100 {
		return fmt.Errorf("invalid developer fee percentage: %d", config.DeveloperFeePercentage)
	}
	if config.WorldType == "" {
		return fmt.Errorf("world type is empty")
	}
	return nil
}

func (c *Config) txConfig() txcontext.Config {
	return txcontext.Config{
		Arena: managed.Config{
			MaxBufferLength:   c.MaxBufferLength,
			BigFloatPrecision: c.BigFloatPrecision,
		},
		ReservedKeyPrefix:       []byte(c.ReservedKeyPrefix),
		NumShards:               c.NumShards,
		ClearTokenDataOnMissing: c.ClearTokenDataOnMissing,
		MaxLogTopics:            c.MaxLogTopics,
	}
}
