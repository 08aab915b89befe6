// internal/flows/library/search-library/config.go
package searchlibrary

import (
	"time"

	"promptcraft-studio/internal/common/config"
)

const (
	DefaultIndex = "prompt-library"
	DefaultLimit = 10
	MaxLimit     = 50
)

type Config struct {
	Index        string
	DefaultLimit int
	Timeout      time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	c := &Config{
		Index:        cfg.Database.Elasticsearch.Index,
		DefaultLimit: DefaultLimit,
		Timeout:      config.GetDuration(config.GetFlowConfig(cfg, TaskType).Timeout),
	}
	if c.Index == "" {
		c.Index = DefaultIndex
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	return c
}
