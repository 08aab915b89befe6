// internal/flows/analysis/evaluate-prompt/config.go
package evaluateprompt

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
