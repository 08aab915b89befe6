// internal/flows/comparison/compare-prompts/config.go
package compareprompts

import (
	"promptcraft-studio/internal/common/config"
	"promptcraft-studio/internal/flows/aiflow"
)

type Config struct {
	Settings aiflow.Settings
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Settings: aiflow.SettingsFor(cfg, TaskType),
	}
}
