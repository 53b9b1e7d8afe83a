package llm

import (
	"context"
	"fmt"

	"decarbgoals/pkg/search"
)

type ExtractInput struct {
	Organization string
	Results      []search.Result
}

type ExtractResult struct {
	Fields    Fields
	RawOutput string
	Parsed    bool
	ModelUsed string
}

type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error)
	Name() string
}

// ExtractionError is returned when the generation API call itself fails.
// Unparseable output is not an error; see ParseFields.
type ExtractionError struct {
	Organization string
	Provider     string
	Err          error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s extraction %q: %v", e.Provider, e.Organization, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
