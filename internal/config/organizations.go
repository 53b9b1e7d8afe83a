package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"decarbgoals/internal/model"
)

// DefaultOrganizations is used when no organizations file exists.
var DefaultOrganizations = []string{
	"Consolidated Edison Company of New York",
	"Veolia Energy NA - Philadelphia",
	"Columbia Energy Center",
	"Downtown Milwaukee",
	"University of Wisconsin - Whitewater",
	"University of Delaware",
}

type organizationsFile struct {
	Organizations []string `yaml:"organizations"`
}

// LoadOrganizations reads the organization list from a YAML file holding
// either a bare sequence or an "organizations" key. A missing file yields
// DefaultOrganizations; an empty list is a ConfigError.
func LoadOrganizations(path string) ([]model.OrganizationQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("organizations file not found, using built-in list", "path", path)
			return toQueries(DefaultOrganizations), nil
		}
		return nil, &ConfigError{Err: fmt.Errorf("failed to read organizations file: %w", err)}
	}

	names, err := parseOrganizations(data)
	if err != nil {
		return nil, &ConfigError{Err: fmt.Errorf("failed to parse organizations file %s: %w", path, err)}
	}

	queries := toQueries(names)
	if len(queries) == 0 {
		return nil, &ConfigError{Err: fmt.Errorf("organizations file %s lists no organizations", path)}
	}
	return queries, nil
}

func parseOrganizations(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var file organizationsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	return file.Organizations, nil
}

func toQueries(names []string) []model.OrganizationQuery {
	queries := make([]model.OrganizationQuery, 0, len(names))
	for _, name := range names {
		name = strings.Join(strings.Fields(name), " ")
		if name == "" {
			continue
		}
		queries = append(queries, model.OrganizationQuery{Name: name})
	}
	return queries
}
