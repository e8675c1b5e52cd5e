package vtpc

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	defaultCachePages = 64
	defaultPageSize   = 4096
	defaultMaxFiles   = 256
)

// Config tunes a Cache. The zero value is not directly usable — start from
// DefaultConfig, or from LoadConfig, which applies DefaultConfig's values to
// any field the YAML file leaves unset.
type Config struct {
	// CachePages is the fixed frame count C.
	CachePages int `yaml:"cache_pages"`
	// PageSize is the block/page size in bytes; must be a positive
	// multiple of 512.
	PageSize int `yaml:"page_size"`
	// DirectIO requests O_DIRECT on Linux, with silent fallback.
	DirectIO bool `yaml:"direct_io"`
	// MaxOpenFiles bounds the file-handle table.
	MaxOpenFiles int `yaml:"max_open_files"`
	// WritebackInterval enables the background write-back daemon when
	// non-zero. Zero (the default) disables it; fsync/close/destroy still
	// flush synchronously regardless of this setting.
	WritebackInterval int `yaml:"writeback_interval_seconds"`
}

// DefaultConfig returns sane defaults: 64 pages of 4096 bytes, 256 open
// files, direct I/O attempted, no background daemon.
func DefaultConfig() Config {
	return Config{
		CachePages:   defaultCachePages,
		PageSize:     defaultPageSize,
		DirectIO:     true,
		MaxOpenFiles: defaultMaxFiles,
	}
}

// LoadConfig reads a YAML config file and applies DefaultConfig's values to
// any field left unset.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "vtpc: read config %s", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "vtpc: parse config %s", path)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.PageSize <= 0 || c.PageSize%512 != 0 {
		return errors.Wrapf(ErrInvalid, "page_size %d must be a positive multiple of 512", c.PageSize)
	}
	if c.CachePages <= 0 {
		return errors.Wrapf(ErrInvalid, "cache_pages %d must be positive", c.CachePages)
	}
	if c.MaxOpenFiles <= 0 {
		return errors.Wrapf(ErrInvalid, "max_open_files %d must be positive", c.MaxOpenFiles)
	}
	if c.WritebackInterval < 0 {
		return errors.Wrapf(ErrInvalid, "writeback_interval_seconds %d must not be negative", c.WritebackInterval)
	}
	return nil
}
