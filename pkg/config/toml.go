// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Pointer fields stay nil
// when a key is absent so they never override flag defaults.
type FileConfig struct {
	GitHub GitHubConfig `toml:"github"`
	Cache  CacheConfig  `toml:"cache"`
	Fetch  FetchConfig  `toml:"fetch"`
}

// GitHubConfig maps API settings.
type GitHubConfig struct {
	Token   *string `toml:"token"`
	BaseURL *string `toml:"base-url"`
}

// CacheConfig maps result cache settings.
type CacheConfig struct {
	Backend   *string `toml:"backend"`
	Dir       *string `toml:"dir"`
	TTL       *string `toml:"ttl"`
	RedisAddr *string `toml:"redis-addr"`
}

// FetchConfig maps pipeline limits.
type FetchConfig struct {
	MaxPages      *int `toml:"max-pages"`
	LanguageRepos *int `toml:"language-repos"`
	Concurrency   *int `toml:"concurrency"`
	PageSize      *int `toml:"page-size"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
