package explorer

import (
	"context"
	"sync"
	"time"

	"unified-thinking/internal/types"
)

// rawFinding is the pre-evaluation shape produced by Stage 1, matching
// §4.2's {content, title, url, source_type, query, target_id, collected_at}.
type rawFinding struct {
	Content     string
	Title       string
	URL         string
	SourceType  string
	Query       string
	TargetID    string
	CollectedAt time.Time
}

// collect is Stage 1: build queries for every target and dispatch them to
// the configured information sources, bounded by MaxParallelExplorations.
// Web search is the default source; other sources (API, DB) are pluggable
// via additional llmiface.WebSearchClient-shaped collaborators in a future
// revision — none are wired today, so web search is the only source.
func (e *Explorer) collect(ctx context.Context, targets []types.ExplorationTarget, strategy Strategy, semanticConfidence float64, intent string) []rawFinding {
	type job struct {
		target types.ExplorationTarget
		query  string
	}

	var jobs []job
	for _, target := range targets {
		for _, q := range BuildQueries(target, strategy, semanticConfidence, intent) {
			jobs = append(jobs, job{target: target, query: q})
		}
	}

	if !e.cfg.EnableWebSearch || e.search == nil {
		return nil
	}

	sem := make(chan struct{}, e.cfg.MaxParallelExplorations)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var findings []rawFinding

	for _, j := range jobs {
		wg.Add(1)
		sem <- struct{}{}
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()

			results, err := e.search.Search(ctx, j.query, 3)
			if err != nil {
				return
			}

			now := time.Now()
			mu.Lock()
			for _, r := range results {
				findings = append(findings, rawFinding{
					Content:     r.Snippet,
					Title:       r.Title,
					URL:         r.Link,
					SourceType:  "web_search",
					Query:       j.query,
					TargetID:    j.target.TargetID,
					CollectedAt: now,
				})
			}
			mu.Unlock()
		}(j)
	}
	wg.Wait()

	return findings
}
