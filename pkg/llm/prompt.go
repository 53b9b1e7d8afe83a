package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"decarbgoals/pkg/search"
)

const promptVersion = "v2"

const toolName = "record_decarbonization_goal"

const toolDescription = "Record the organization's decarbonization commitment as found in the search results."

const systemPrompt = `You are a sustainability analyst. You read web search results about one organization and report its decarbonization commitment.

Rules:
1. Use only information from the organization's official website or its official press releases. Ignore third-party sites.
2. Never guess. When a value is not stated, answer "unknown".
3. goal: one short phrase naming the commitment (for example "net-zero", "carbon neutral", "50% emissions reduction").
4. target_year and baseline_year: four-digit years only.
5. scope: the emissions scopes covered as a comma-separated list of numbers, for example "1,2" or "1,2,3".
6. source_urls: the URLs from the search results that state the commitment.
7. has_goal: "Yes" when a goal is stated, "No" only when the organization says it has none, otherwise "Not Found".

Always answer by calling the record_decarbonization_goal tool.`

// GoalFields is the structured answer requested from the model.
type GoalFields struct {
	HasGoal      string   `json:"has_goal" jsonschema:"enum=Yes,enum=No,enum=Not Found" jsonschema_description:"Yes if the organization states a decarbonization goal, No if it states it has none, Not Found otherwise"`
	Goal         string   `json:"goal" jsonschema_description:"Short name of the decarbonization goal, or unknown"`
	TargetYear   string   `json:"target_year" jsonschema_description:"Four-digit target year, or unknown"`
	BaselineYear string   `json:"baseline_year" jsonschema_description:"Four-digit baseline year, or unknown"`
	Scope        string   `json:"scope" jsonschema_description:"Comma-separated emissions scopes covered such as 1,2,3, or unknown"`
	SourceURLs   []string `json:"source_urls" jsonschema_description:"URLs from the search results that state the goal"`
}

type toolSchema struct {
	Properties map[string]any `json:"properties"`
	Required   []string       `json:"required"`
}

var goalSchema, goalToolSchema = mustGoalSchema()

func mustGoalSchema() (map[string]any, toolSchema) {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	data, err := json.Marshal(r.Reflect(&GoalFields{}))
	if err != nil {
		panic(fmt.Sprintf("goal schema: %v", err))
	}

	var full map[string]any
	if err := json.Unmarshal(data, &full); err != nil {
		panic(fmt.Sprintf("goal schema: %v", err))
	}
	delete(full, "$schema")
	delete(full, "$id")

	var tool toolSchema
	if err := json.Unmarshal(data, &tool); err != nil {
		panic(fmt.Sprintf("goal schema: %v", err))
	}
	return full, tool
}

func buildUserPrompt(input ExtractInput) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Organization: %s\n\n", input.Organization))
	sb.WriteString(fmt.Sprintf("Search results for %s:\n", input.Organization))
	sb.WriteString(formatResults(input.Results))
	sb.WriteString(fmt.Sprintf("Determine whether %s has a stated decarbonization goal, its target year, baseline year, and the emissions scopes covered.", input.Organization))
	return sb.String()
}

func formatResults(results []search.Result) string {
	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("[%d] Title: %s\n", i+1, r.Title))
		sb.WriteString(fmt.Sprintf("    Snippet: %s\n", r.Snippet))
		sb.WriteString(fmt.Sprintf("    URL: %s\n\n", r.URL))
	}
	return sb.String()
}
