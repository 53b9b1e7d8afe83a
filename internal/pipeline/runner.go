// Package pipeline runs search and extraction for each organization and
// collects the records in input order.
package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"decarbgoals/internal/model"
	"decarbgoals/pkg/llm"
	"decarbgoals/pkg/search"
)

type Runner struct {
	Searcher     search.Searcher
	Extractor    llm.Extractor
	Concurrency  int
	RequestDelay time.Duration

	// Progress, if set, is called as each organization starts.
	Progress func(index, total int, organization string)

	mu sync.Mutex
}

// Run processes every organization and returns one record per organization
// in input order. Per-organization failures are recorded on the record; only
// cancellation of ctx makes Run fail.
func (r *Runner) Run(ctx context.Context, orgs []model.OrganizationQuery) (*ResultSet, error) {
	records := make([]model.ExtractionRecord, len(orgs))

	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, org := range orgs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.progress(i, len(orgs), org.Name)

			records[i] = r.process(gctx, org.Name)

			if err := gctx.Err(); err != nil {
				return err
			}
			if i < len(orgs)-1 {
				return sleep(gctx, r.RequestDelay)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := NewResultSet(len(records))
	for _, rec := range records {
		set.Append(rec)
	}
	return set, nil
}

func (r *Runner) process(ctx context.Context, org string) model.ExtractionRecord {
	rec := model.NewUnknownRecord(org)

	results, err := r.Searcher.Search(ctx, org)
	if err != nil {
		slog.Error("search failed, continuing without results", "organization", org, "source", r.Searcher.Name(), "error", err)
		rec.SearchFailed = true
		results = nil
	}

	if len(results) == 0 {
		slog.Warn("no search results, skipping extraction", "organization", org)
		return rec
	}

	fields := llm.UnknownFields()
	result, err := r.Extractor.Extract(ctx, llm.ExtractInput{Organization: org, Results: results})
	if err != nil {
		slog.Error("extraction failed, recording unknown fields", "organization", org, "extractor", r.Extractor.Name(), "error", err)
		rec.ExtractionFailed = true
	} else {
		fields = result.Fields
		if fields.HasGoal != "" {
			rec.GoalStatus = fields.HasGoal
		}
		rec.RawModelOutput = result.RawOutput
		rec.ModelUsed = result.ModelUsed
	}

	llm.ApplySnippetFallbacks(&fields, org, results)

	rec.GoalDescription = fields.Goal
	rec.TargetYear = fields.TargetYear
	rec.BaselineYear = fields.BaselineYear
	rec.Scope = fields.Scope
	rec.SourceURLs = fields.SourceURLs

	slog.Debug("organization processed",
		"organization", org,
		"has_goal", rec.GoalStatus,
		"goal", rec.GoalDescription,
		"target_year", rec.TargetYear,
		"baseline_year", rec.BaselineYear,
		"scope", rec.Scope,
		"source_urls", rec.JoinedURLs(),
		"model", rec.ModelUsed,
		"raw_model_output", rec.RawModelOutput,
	)

	return rec
}

func (r *Runner) progress(index, total int, org string) {
	if r.Progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Progress(index, total, org)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
