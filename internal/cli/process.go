package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RISKA667/Garmea-sub000/internal/export"
	"github.com/RISKA667/Garmea-sub000/internal/extract"
	"github.com/RISKA667/Garmea-sub000/internal/model"
	"github.com/RISKA667/Garmea-sub000/internal/pipeline"
	"github.com/RISKA667/Garmea-sub000/internal/worker"
	"github.com/spf13/cobra"
)

var (
	outJSON        string
	outGEDCOM      string
	outCSVDir      string
	processTimeout time.Duration
	fromText       bool
	llmEnabled     bool
	llmProvider    string
	llmModel       string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <dataset>",
	Short: "Resolve a mention dataset into a genealogy",
	Long: `Process runs a mention dataset through the full pipeline:
- Resolve raw mentions into canonical person identities
- Detect homonyms by land holdings and incompatible professions
- Build the family relation graph with inferred relations
- Validate and repair chronology against the register dates
- Export the result as JSON, GEDCOM and CSV

The dataset is a JSON or YAML file of mentions, parish records and
declared relations. With --from-text the input is raw register text
(pages separated by form feeds) and the regex extractor produces the
mentions first; add --llm to use an LLM extractor instead.

Example:
  garmea process registre.json
  garmea process registre.yaml --gedcom famille.ged --csv-dir ./tables
  garmea process registre.txt --from-text
  garmea process registre.txt --from-text --llm --llm-provider openai`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	// Output flags
	processCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON report path")
	processCmd.Flags().StringVar(&outGEDCOM, "gedcom", "", "output GEDCOM path (optional)")
	processCmd.Flags().StringVar(&outCSVDir, "csv-dir", "", "output directory for persons/relations CSV (optional)")
	processCmd.Flags().DurationVar(&processTimeout, "timeout", 5*time.Minute, "overall processing timeout")

	// Extraction flags
	processCmd.Flags().BoolVar(&fromText, "from-text", false, "treat input as raw register text and extract mentions first")
	processCmd.Flags().BoolVar(&llmEnabled, "llm", false, "use an LLM extractor instead of the regex one")
	processCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	processCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runProcess(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	cfg := model.DefaultConfig()
	cfg.Output.Verbose = verbose

	if fromText && llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	p := pipeline.NewPipeline(cfg, log)

	var ds *model.Dataset
	var err error
	switch {
	case fromText && llmEnabled:
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Extracting mentions with %s/%s...\n", llmProvider, llmModel)
		}
		pages, rerr := worker.ReadPagesFromFile(input)
		if rerr != nil {
			return fmt.Errorf("read pages: %w", rerr)
		}
		ds, err = p.ExtractDataset(ctx, pages, filepath.Base(input))
	case fromText:
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Extracting mentions with register patterns...\n")
		}
		pages, rerr := worker.ReadPagesFromFile(input)
		if rerr != nil {
			return fmt.Errorf("read pages: %w", rerr)
		}
		ds = extract.NewExtractor(log).ExtractPages(pages, filepath.Base(input))
	default:
		ds, err = pipeline.LoadDataset(input)
	}
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Processing %d mentions, %d records, %d relations...\n",
			len(ds.Mentions), len(ds.Actes), len(ds.Relations))
	}

	result, err := p.Process(ctx, ds)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Resolved %d persons (%d merged, %d homonyms kept apart)\n",
			result.Report.PersonCount, result.Report.Resolver.PersonsMerged, result.Report.Resolver.HomonymsDetected)
		fmt.Fprintf(os.Stderr, "✓ Built %d relations across %d family groups\n",
			result.Report.RelationCount, result.Report.FamilyGroups)
		fmt.Fprintf(os.Stderr, "✓ Made %d chronology corrections\n", result.Report.Chronology.CorrectionsMade)
		fmt.Fprintln(os.Stderr)
	}

	e := export.NewExporter(log)
	if outJSON != "" {
		if err := e.JSONFile(outJSON, result.Report); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outGEDCOM != "" {
		if err := e.GEDCOMFile(outGEDCOM, result.Persons, result.Network); err != nil {
			return fmt.Errorf("write GEDCOM: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote GEDCOM: %s\n", outGEDCOM)
		}
	}
	if outCSVDir != "" {
		if err := os.MkdirAll(outCSVDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		if err := e.PersonsCSVFile(filepath.Join(outCSVDir, "persons.csv"), result.Persons); err != nil {
			return fmt.Errorf("write persons CSV: %w", err)
		}
		if err := e.RelationsCSVFile(filepath.Join(outCSVDir, "relations.csv"), result.Network.Relations); err != nil {
			return fmt.Errorf("write relations CSV: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote CSV tables: %s\n", outCSVDir)
		}
	}

	printSummary(result.Report)
	return nil
}

// printSummary prints the run summary to stdout.
func printSummary(report *model.Report) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", report.Source)
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Persons:       %d\n", report.PersonCount)
	fmt.Printf("  Records:       %d\n", report.ActeCount)
	fmt.Printf("  Relations:     %d\n", report.RelationCount)
	fmt.Printf("  Generations:   %d\n", report.GenerationDepth)
	fmt.Printf("  Family groups: %d (largest: %d)\n", report.FamilyGroups, report.LargestFamily)
	fmt.Printf("  Corrections:   %d\n", report.Chronology.CorrectionsMade)
	if len(report.Warnings) > 0 {
		fmt.Printf("  Warnings:      %d\n", len(report.Warnings))
	}
	fmt.Println()
}
