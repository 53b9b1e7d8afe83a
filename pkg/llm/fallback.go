package llm

import (
	"context"
	"errors"
	"log/slog"
)

// FallbackExtractor asks Secondary when Primary fails. Secondary may be nil.
type FallbackExtractor struct {
	Primary   Extractor
	Secondary Extractor
}

func NewFallbackExtractor(primary, secondary Extractor) Extractor {
	if secondary == nil {
		return primary
	}
	return &FallbackExtractor{Primary: primary, Secondary: secondary}
}

func (f *FallbackExtractor) Name() string {
	if f.Secondary == nil {
		return f.Primary.Name()
	}
	return f.Primary.Name() + "+" + f.Secondary.Name()
}

func (f *FallbackExtractor) Extract(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	result, err := f.Primary.Extract(ctx, input)
	if err == nil || f.Secondary == nil || ctx.Err() != nil {
		return result, err
	}

	slog.Warn("primary extractor failed, trying fallback",
		"organization", input.Organization,
		"primary", f.Primary.Name(),
		"fallback", f.Secondary.Name(),
		"error", err,
	)

	result, fallbackErr := f.Secondary.Extract(ctx, input)
	if fallbackErr != nil {
		return nil, errors.Join(err, fallbackErr)
	}
	return result, nil
}
