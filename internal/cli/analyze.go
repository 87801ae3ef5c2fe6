package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/RISKA667/Garmea-sub000/internal/analyze"
	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency    int
	topPages       int
	analyzeTimeout time.Duration
	showAll        bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Score register pages for genealogical content",
	Long: `Analyze scores the pages of a digitized register and recommends
which ones are worth processing:
- Pages are separated by form feed characters
- Each page is scored on parish vocabulary, kinship phrases, dates
  and distinct person names
- Pages scoring above the quality threshold are recommended

Example:
  garmea analyze registre.txt
  garmea analyze registre.txt --top 10 --concurrency 8`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	analyzeCmd.Flags().IntVar(&topPages, "top", 0, "recommend at most this many pages (0 = config default)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "total analysis timeout")
	analyzeCmd.Flags().BoolVar(&showAll, "all", false, "print every page score, not only recommended pages")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	if topPages > 0 {
		cfg.Analyze.TopPages = topPages
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	scorer := analyze.NewScorer(cfg.Analyze, log)
	batcher := worker.NewBatchAnalyzer(scorer, concurrency)

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Analyzing %s with %d workers...\n", file, concurrency)
	}

	results, err := batcher.AnalyzeFile(ctx, file)
	if err != nil {
		return fmt.Errorf("analyze file: %w", err)
	}

	scores := make([]*analyze.PageScore, 0, len(results))
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ page %d: %v\n", r.Number, r.Error)
			continue
		}
		scores = append(scores, r.Score)
	}

	recommended := scorer.Recommend(scores)

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Page analysis: %s\n", file)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Pages scored:  %d\n", len(scores))
	fmt.Printf("  Recommended:   %d\n", len(recommended))
	if failures > 0 {
		fmt.Printf("  Failures:      %d\n", failures)
	}
	fmt.Println()

	shown := recommended
	if showAll {
		shown = scores
	}
	for _, score := range shown {
		marker := " "
		if score.Recommended {
			marker = "✓"
		}
		fmt.Printf("  %s page %-4d score %5.1f  (parish %d, kinship %d, dates %d, names %d)\n",
			marker, score.Number, score.Score,
			score.ParishSignals, score.RelationSignals, score.DateSignals, score.PersonNames)
	}
	fmt.Println()

	return nil
}
