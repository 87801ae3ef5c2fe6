package worker

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/RISKA667/Garmea-sub000/internal/analyze"
)

// Analyzer scores one page of extracted text.
type Analyzer interface {
	AnalyzePage(ctx context.Context, number int, text string) (*analyze.PageScore, error)
}

// PageJob scores a single page.
type PageJob struct {
	Number   int
	Text     string
	Analyzer Analyzer
}

// Execute runs the analysis for one page.
func (j *PageJob) Execute(ctx context.Context) Result {
	score, err := j.Analyzer.AnalyzePage(ctx, j.Number, j.Text)
	return &PageResult{
		Number: j.Number,
		Score:  score,
		Error:  err,
	}
}

// PageResult is the outcome of analyzing one page.
type PageResult struct {
	Number int
	Score  *analyze.PageScore
	Error  error
}

// GetError returns the analysis error, if any.
func (r *PageResult) GetError() error {
	return r.Error
}

// BatchAnalyzer fans page analysis out over a worker pool. Pages are
// independent read-only work; the results are handed back as one ordered
// slice so the caller can feed the core sequentially.
type BatchAnalyzer struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchAnalyzer creates a batch analyzer with the given concurrency.
func NewBatchAnalyzer(analyzer Analyzer, concurrency int) *BatchAnalyzer {
	return &BatchAnalyzer{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// AnalyzePages scores every page concurrently. Page numbers are 1-based and
// the results come back ordered by page number.
func (b *BatchAnalyzer) AnalyzePages(ctx context.Context, pages []string) []*PageResult {
	if len(pages) == 0 {
		return []*PageResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Drain results while submitting. With more pages than the result
	// buffer holds, submit-everything-then-collect wedges the workers.
	collector := &ResultCollector{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for result := range pool.Results() {
			collector.Add(result)
		}
	}()

	for i, text := range pages {
		pool.Submit(&PageJob{
			Number:   i + 1,
			Text:     text,
			Analyzer: b.analyzer,
		})
	}

	pool.Drain()
	<-done

	results := collector.Results()
	pageResults := make([]*PageResult, 0, len(results))
	for _, result := range results {
		pageResults = append(pageResults, result.(*PageResult))
	}
	sort.Slice(pageResults, func(i, j int) bool {
		return pageResults[i].Number < pageResults[j].Number
	})
	return pageResults
}

// AnalyzeFile reads extracted text from a file and scores its pages.
func (b *BatchAnalyzer) AnalyzeFile(ctx context.Context, filePath string) ([]*PageResult, error) {
	pages, err := ReadPagesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read pages: %w", err)
	}
	return b.AnalyzePages(ctx, pages), nil
}

// ReadPagesFromFile loads extracted text and splits it into pages on form
// feeds, the page separator text extractors emit. A file without form feeds
// is one page.
func ReadPagesFromFile(filePath string) ([]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	var pages []string
	for _, page := range strings.Split(string(data), "\f") {
		if strings.TrimSpace(page) == "" {
			continue
		}
		pages = append(pages, page)
	}
	return pages, nil
}
