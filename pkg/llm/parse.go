package llm

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"decarbgoals/internal/model"
	"decarbgoals/pkg/search"
)

const maxFallbackGoalChars = 250

// Years may be glued to letters ("FY2019", "2040s") but not to other digits.
var yearPattern = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)

var targetYearPattern = regexp.MustCompile(`(?:^|\D)(20\d{2})(?:\D|$)`)

var emptyValues = map[string]bool{
	"":          true,
	"null":      true,
	"none":      true,
	"n/a":       true,
	"na":        true,
	"unknown":   true,
	"not found": true,
}

var commonWords = map[string]bool{
	"the": true, "of": true, "and": true, "company": true, "inc": true, "co": true, "-": true,
}

type Fields struct {
	HasGoal      string
	Goal         string
	TargetYear   string
	BaselineYear string
	Scope        string
	SourceURLs   []string
}

func UnknownFields() Fields {
	return Fields{
		HasGoal:      model.GoalNotFound,
		Goal:         model.Unknown,
		TargetYear:   model.Unknown,
		BaselineYear: model.Unknown,
		Scope:        model.Unknown,
	}
}

// ParseFields reads the model's JSON answer. Missing or unusable values come
// back as unknown; ok is false only when no JSON object could be decoded.
func ParseFields(raw string) (Fields, bool) {
	content := cleanJSONResponse(raw)

	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err != nil || m == nil {
		return UnknownFields(), false
	}

	return Fields{
		HasGoal:      goalStatus(m),
		Goal:         textField(m, "goal", "goal_description", "description"),
		TargetYear:   yearField(m, "target_year", "target_date"),
		BaselineYear: yearField(m, "baseline_year"),
		Scope:        textField(m, "scope"),
		SourceURLs:   urlsField(m, "source_urls", "source_url"),
	}, true
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

func goalStatus(m map[string]any) string {
	switch v := m["has_goal"].(type) {
	case bool:
		if v {
			return model.GoalYes
		}
		return model.GoalNo
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true":
			return model.GoalYes
		case "no", "false":
			return model.GoalNo
		}
	}
	return model.GoalNotFound
}

func textField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := normalize(v, ","); s != model.Unknown {
				return s
			}
		}
	}
	return model.Unknown
}

func yearField(m map[string]any, keys ...string) string {
	s := textField(m, keys...)
	if s == model.Unknown {
		return s
	}
	if year := findYear(yearPattern, s); year != "" {
		return year
	}
	return model.Unknown
}

func urlsField(m map[string]any, keys ...string) []string {
	var urls []string
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			urls = appendURL(urls, v)
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					urls = appendURL(urls, s)
				}
			}
		}
		if len(urls) > 0 {
			return urls
		}
	}
	return nil
}

func appendURL(urls []string, s string) []string {
	s = strings.TrimSpace(s)
	if emptyValues[strings.ToLower(s)] {
		return urls
	}
	for _, u := range urls {
		if u == s {
			return urls
		}
	}
	return append(urls, s)
}

func normalize(v any, sep string) string {
	switch t := v.(type) {
	case nil:
		return model.Unknown
	case string:
		s := strings.TrimSpace(t)
		if emptyValues[strings.ToLower(s)] {
			return model.Unknown
		}
		return s
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := normalize(item, sep); s != model.Unknown {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return model.Unknown
		}
		return strings.Join(parts, sep)
	default:
		return model.Unknown
	}
}

// ApplySnippetFallbacks fills unknown fields from search results that look
// like the organization's own pages: the result mentions the organization and
// its host name contains one of the organization's name tokens.
func ApplySnippetFallbacks(fields *Fields, organization string, results []search.Result) {
	tokens := orgTokens(organization)
	if len(tokens) == 0 {
		return
	}

	var official []search.Result
	for _, r := range results {
		if r.URL != "" && resultMatchesOrg(tokens, r) && urlBelongsToOrg(tokens, r.URL) {
			official = append(official, r)
		}
	}

	if len(fields.SourceURLs) == 0 && len(official) > 0 {
		fields.SourceURLs = []string{official[0].URL}
	}

	if model.IsUnknown(fields.TargetYear) {
		for _, r := range official {
			if year := findYear(targetYearPattern, r.Snippet); year != "" {
				fields.TargetYear = year
				break
			}
		}
	}

	if model.IsUnknown(fields.Goal) {
		for _, r := range official {
			lower := strings.ToLower(r.Snippet)
			if strings.Contains(lower, "decarbon") || strings.Contains(lower, "net zero") {
				fields.Goal = truncateRunes(strings.TrimSpace(r.Snippet), maxFallbackGoalChars)
				break
			}
		}
	}
}

func orgTokens(organization string) []string {
	var tokens []string
	for _, t := range strings.Fields(strings.ToLower(organization)) {
		if !commonWords[t] {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func resultMatchesOrg(tokens []string, r search.Result) bool {
	title := strings.ToLower(r.Title)
	snippet := strings.ToLower(r.Snippet)
	for _, t := range tokens {
		if strings.Contains(title, t) || strings.Contains(snippet, t) {
			return true
		}
	}
	return false
}

func urlBelongsToOrg(tokens []string, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, t := range tokens {
		if strings.Contains(host, t) {
			return true
		}
	}
	return false
}

func findYear(pattern *regexp.Regexp, s string) string {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
