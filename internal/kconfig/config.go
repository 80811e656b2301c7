// Package kconfig is the kernel's ambient configuration layer, grounded
// in internal/config/config.go's viper+mapstructure pattern: defaults
// set on the global viper instance, then unmarshaled into a typed
// struct. Nothing here is part of the design kernel's core state model
// (spec.md §3) — it configures the kernel's own runtime knobs.
package kconfig

import "github.com/spf13/viper"

// Config holds runtime configuration for a kernel process.
type Config struct {
	DesignName          string  `mapstructure:"design_name"`
	DefaultGMRequiredM   float64 `mapstructure:"default_gm_required_m"`
	SynthesisMaxIter     int     `mapstructure:"synthesis_max_iterations"`
	ValidatorRetryInfra  bool    `mapstructure:"validator_retry_infrastructure_errors"`
	PriorsOverridePath   string  `mapstructure:"priors_override_path"`
	Verbose              bool    `mapstructure:"verbose"`
}

// Load reads configuration from viper, applying built-in defaults for
// any values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("design_name", "untitled-design")
	viper.SetDefault("default_gm_required_m", 0.35)
	viper.SetDefault("synthesis_max_iterations", 15)
	viper.SetDefault("validator_retry_infrastructure_errors", true)
	viper.SetDefault("priors_override_path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
