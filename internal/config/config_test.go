package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"decarbgoals/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "brave")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OUTPUT_CSV", "")
	t.Setenv("CONCURRENCY", "")
	t.Setenv("LLM_MAX_RETRIES", "")
	t.Setenv("OPENAI_MODEL", "")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, "brave", cfg.BraveAPIKey)
	assert.Equal(t, "anthropic", cfg.AnthropicAPIKey)
	assert.Equal(t, "", cfg.OpenAIAPIKey)
	assert.Equal(t, DefaultOutputCSV, cfg.OutputCSV)
	assert.Equal(t, DefaultDebugLog, cfg.DebugLog)
	assert.Equal(t, 5, cfg.SearchResultCount)
	assert.Equal(t, 2, cfg.SearchMaxRetries)
	assert.Equal(t, 5*time.Second, cfg.SearchRetryWait)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Second, cfg.RequestDelay)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 2, cfg.LLMMaxRetries)
	assert.Equal(t, DefaultAnthropicModel, cfg.AnthropicModel)
	assert.Equal(t, DefaultOpenAIModel, cfg.OpenAIModel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "brave")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("SEARCH_RESULT_COUNT", "10")
	t.Setenv("HTTP_TIMEOUT_MS", "1500")
	t.Setenv("CONCURRENCY", "0")
	t.Setenv("SEARCH_MAX_RETRIES", "not-a-number")
	t.Setenv("LLM_MAX_RETRIES", "-3")
	t.Setenv("OPENAI_MODEL", "gpt-4.1-mini")

	cfg, err := Load()

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, cfg.LLMMaxRetries)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAIModel)
	assert.Equal(t, 10, cfg.SearchResultCount)
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTPTimeout)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 2, cfg.SearchMaxRetries)
}

func TestLoadMissingKeys(t *testing.T) {
	tests := []struct {
		name    string
		brave   string
		claude  string
		missing []string
	}{
		{name: "both missing", missing: []string{"BRAVE_API_KEY", "ANTHROPIC_API_KEY"}},
		{name: "brave missing", claude: "x", missing: []string{"BRAVE_API_KEY"}},
		{name: "anthropic missing", brave: "x", missing: []string{"ANTHROPIC_API_KEY"}},
		{name: "whitespace only", brave: "  ", claude: "x", missing: []string{"BRAVE_API_KEY"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BRAVE_API_KEY", tt.brave)
			t.Setenv("ANTHROPIC_API_KEY", tt.claude)

			cfg, err := Load()

			assert.Equal(t, (*Config)(nil), cfg)
			var cfgErr *ConfigError
			assert.Equal(t, true, errors.As(err, &cfgErr))
			assert.Equal(t, tt.missing, cfgErr.Missing)
		})
	}
}

func TestLoadInvalidResultCount(t *testing.T) {
	t.Setenv("BRAVE_API_KEY", "brave")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic")
	t.Setenv("SEARCH_RESULT_COUNT", "50")

	_, err := Load()

	var cfgErr *ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
	assert.Equal(t, 0, len(cfgErr.Missing))
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "organizations.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOrganizationsKeyed(t *testing.T) {
	path := writeFile(t, "organizations:\n  - Acme Corp\n  - \"  Ghost   Inc \"\n  - \"\"\n")

	got, err := LoadOrganizations(path)

	assert.Equal(t, nil, err)
	assert.Equal(t, []model.OrganizationQuery{{Name: "Acme Corp"}, {Name: "Ghost Inc"}}, got)
}

func TestLoadOrganizationsBareList(t *testing.T) {
	path := writeFile(t, "- Acme Corp\n- Ghost Inc\n")

	got, err := LoadOrganizations(path)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(got))
	assert.Equal(t, "Ghost Inc", got[1].Name)
}

func TestLoadOrganizationsMissingFile(t *testing.T) {
	got, err := LoadOrganizations(filepath.Join(t.TempDir(), "absent.yaml"))

	assert.Equal(t, nil, err)
	assert.Equal(t, len(DefaultOrganizations), len(got))
	assert.Equal(t, DefaultOrganizations[0], got[0].Name)
}

func TestLoadOrganizationsEmpty(t *testing.T) {
	path := writeFile(t, "organizations: []\n")

	_, err := LoadOrganizations(path)

	var cfgErr *ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
}

func TestLoadOrganizationsInvalidYAML(t *testing.T) {
	path := writeFile(t, "organizations: [Acme\n")

	_, err := LoadOrganizations(path)

	var cfgErr *ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
}

func TestToQueriesNormalizesNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []model.OrganizationQuery
	}{
		{
			name:  "collapses inner whitespace",
			input: []string{"  Acme   Corp ", "Ghost\tInc"},
			want:  []model.OrganizationQuery{{Name: "Acme Corp"}, {Name: "Ghost Inc"}},
		},
		{
			name:  "drops blank names",
			input: []string{"", "   ", "\n", "Acme Corp"},
			want:  []model.OrganizationQuery{{Name: "Acme Corp"}},
		},
		{
			name:  "keeps duplicates and order",
			input: []string{"Beta LLC", "Acme Corp", "Beta  LLC"},
			want:  []model.OrganizationQuery{{Name: "Beta LLC"}, {Name: "Acme Corp"}, {Name: "Beta LLC"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toQueries(tt.input))
		})
	}
}

func TestLoadOrganizationsOnlyBlankNames(t *testing.T) {
	path := writeFile(t, "- \"  \"\n- \"\"\n")

	_, err := LoadOrganizations(path)

	var cfgErr *ConfigError
	assert.Equal(t, true, errors.As(err, &cfgErr))
}
