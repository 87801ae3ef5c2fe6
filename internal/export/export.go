// Package export renders processing results to interchange formats.
// Exporters are thin consumers of the resolved model; they never mutate it.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/RISKA667/Garmea-sub000/internal/model"
)

// Exporter writes reports, persons and relations to GEDCOM, JSON and CSV.
type Exporter struct {
	log *zap.Logger
}

// NewExporter creates an exporter. A nil logger is replaced with a no-op one.
func NewExporter(log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{log: log}
}

// WriteJSON writes the full report as indented JSON.
func (e *Exporter) WriteJSON(w io.Writer, report *model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

// JSONFile writes the report as JSON to path.
func (e *Exporter) JSONFile(path string, report *model.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return e.WriteJSON(f, report)
}
