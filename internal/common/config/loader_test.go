package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearAIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_VERSION",
		"AZURE_OPENAI_DEPLOYMENT_NAME", "GEMINI_API_KEY",
		"AI_PROVIDER", "AI_API_KEY", "AI_ENDPOINT", "AI_API_VERSION", "AI_DEPLOYMENT",
	} {
		t.Setenv(key, "")
	}
}

const fullConfig = `
app:
  name: promptcraft-test
server:
  address: ":9090"
ai:
  api_key: key
  endpoint: https://example.openai.azure.com
  api_version: "2024-02-01"
  deployment: gpt-4o
flows:
  compare-prompts:
    enabled: true
    timeout: 5000
    temperature: 0.2
  analyze-dna:
    enabled: false
`

func TestLoadFromFile_Defaults(t *testing.T) {
	clearAIEnv(t)
	cfg, err := LoadFromFile(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "promptcraft-test", cfg.App.Name)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, ProviderAzure, cfg.AI.Provider)
	assert.Equal(t, 0.7, cfg.AI.Temperature)
	assert.Equal(t, 60000, cfg.AI.Timeout)
	assert.Equal(t, "prompt-library", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.Equal(t, 5*time.Second, GetDuration(GetFlowConfig(cfg, FlowComparePrompts).Timeout))
	assert.Equal(t, 60*time.Second, GetDuration(GetFlowConfig(cfg, FlowEvaluatePrompt).Timeout))
	assert.Equal(t, 0.2, FlowTemperature(cfg, FlowComparePrompts))
	assert.Equal(t, 0.7, FlowTemperature(cfg, FlowAnalyzeDNA))

	assert.True(t, IsFlowEnabled(cfg, FlowComparePrompts))
	assert.False(t, IsFlowEnabled(cfg, FlowAnalyzeDNA))
	assert.True(t, IsFlowEnabled(cfg, "unknown-flow"))
}

func TestLoadFromFile_AzureEnvOverrides(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-06-01")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "env-deploy")

	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: x\n"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "https://env.openai.azure.com", cfg.AI.Endpoint)
	assert.Equal(t, "2024-06-01", cfg.AI.APIVersion)
	assert.Equal(t, "env-deploy", cfg.AI.Deployment)
}

func TestLoadFromFile_PlaceholderExpansion(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("TEST_PROMPTCRAFT_KEY", "expanded-key")

	body := `
ai:
  api_key: ${TEST_PROMPTCRAFT_KEY}
  endpoint: https://example.openai.azure.com
  api_version: "2024-02-01"
  deployment: gpt-4o
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, "expanded-key", cfg.AI.APIKey)
}

const shippedConfig = "../../../configs/config.yaml"

func TestLoadFromFile_ShippedConfigRequiresAzureEnv(t *testing.T) {
	clearAIEnv(t)

	_, err := LoadFromFile(shippedConfig)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is required")
}

func TestLoadFromFile_ShippedConfigWithEnv(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("APP_ENVIRONMENT", "")
	t.Setenv("REDIS_PASSWORD", "")
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://env.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-06-01")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT_NAME", "env-deploy")

	cfg, err := LoadFromFile(shippedConfig)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.AI.APIKey)
	assert.Equal(t, "https://env.openai.azure.com", cfg.AI.Endpoint)
	assert.Equal(t, "2024-06-01", cfg.AI.APIVersion)
	assert.Equal(t, "env-deploy", cfg.AI.Deployment)
	// Unset placeholders resolve to empty, then defaults apply.
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Empty(t, cfg.Database.Redis.Password)
}

func TestLoadFromFile_UnsetPlaceholderIsMissing(t *testing.T) {
	clearAIEnv(t)

	body := `
ai:
  api_key: ${PROMPTCRAFT_TEST_UNSET_KEY}
  endpoint: https://example.openai.azure.com
  api_version: "2024-02-01"
  deployment: gpt-4o
`
	_, err := LoadFromFile(writeConfig(t, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ai.api_key is required")
}

func TestLoadFromFile_ExplicitZeroTemperature(t *testing.T) {
	clearAIEnv(t)

	body := `
ai:
  api_key: key
  endpoint: https://example.openai.azure.com
  api_version: "2024-02-01"
  deployment: gpt-4o
  temperature: 0
flows:
  compare-prompts:
    temperature: 0.2
`
	cfg, err := LoadFromFile(writeConfig(t, body))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.AI.Temperature)
	assert.Equal(t, 0.0, FlowTemperature(cfg, FlowEvaluatePrompt))
	assert.Equal(t, 0.2, FlowTemperature(cfg, FlowComparePrompts))
}

func TestLoadFromFile_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing key",
			body:    "ai:\n  endpoint: https://e\n  api_version: v\n  deployment: d\n",
			wantErr: "ai.api_key is required",
		},
		{
			name:    "missing endpoint",
			body:    "ai:\n  api_key: k\n  api_version: v\n  deployment: d\n",
			wantErr: "ai.endpoint is required",
		},
		{
			name:    "missing version",
			body:    "ai:\n  api_key: k\n  endpoint: https://e\n  deployment: d\n",
			wantErr: "ai.api_version is required",
		},
		{
			name:    "missing deployment",
			body:    "ai:\n  api_key: k\n  endpoint: https://e\n  api_version: v\n",
			wantErr: "ai.deployment is required",
		},
		{
			name:    "bad provider",
			body:    "ai:\n  provider: other\n  api_key: k\n  deployment: d\n",
			wantErr: "ai.provider must be",
		},
		{
			name:    "redis without address",
			body:    fullConfig + "database:\n  redis:\n    enabled: true\n",
			wantErr: "database.redis.address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAIEnv(t)
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_GeminiRelaxesAzureSettings(t *testing.T) {
	clearAIEnv(t)
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := LoadFromFile(writeConfig(t, "ai:\n  provider: gemini\n  deployment: gemini-2.5-flash\n"))
	require.NoError(t, err)
	assert.Equal(t, "gem-key", cfg.AI.APIKey)
	assert.Empty(t, cfg.AI.Endpoint)
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "lib", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=lib sslmode=disable", p.GetDSN())
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
