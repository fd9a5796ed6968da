package main

import (
	"github.com/spf13/viper"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/config"
)

// loadCompressorConfig starts from config.DefaultCompressor and overlays
// any keys found in the file at configPath (YAML, JSON, or TOML, sniffed by
// extension). configPath == "" returns the defaults unchanged.
func loadCompressorConfig(configPath string) (config.Compressor, error) {
	cfg := config.DefaultCompressor()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return cfg, alserr.Wrap(alserr.KindIO, err, "reading config file %s", configPath)
	}

	if v.IsSet("ctx_fallback_threshold") {
		cfg = cfg.WithCtxFallbackThreshold(v.GetFloat64("ctx_fallback_threshold"))
	}
	if v.IsSet("min_pattern_length") {
		cfg = cfg.WithMinPatternLength(v.GetInt("min_pattern_length"))
	}
	if v.IsSet("max_range_expansion") {
		cfg = cfg.WithMaxRangeExpansion(v.GetInt("max_range_expansion"))
	}
	if v.IsSet("max_dictionary_entries") {
		cfg = cfg.WithMaxDictionaryEntries(v.GetInt("max_dictionary_entries"))
	}
	if v.IsSet("max_input_size") {
		cfg = cfg.WithMaxInputSize(v.GetInt("max_input_size"))
	}
	if v.IsSet("parallelism") {
		cfg = cfg.WithParallelism(v.GetInt("parallelism"))
	}
	if v.IsSet("simd_enable") {
		cfg = cfg.WithSimdEnable(v.GetBool("simd_enable"))
	}
	if v.IsSet("hashmap_threshold") {
		cfg = cfg.WithHashmapThreshold(v.GetInt("hashmap_threshold"))
	}
	return cfg, nil
}
