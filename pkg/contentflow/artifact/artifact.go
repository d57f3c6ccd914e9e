// Package artifact writes the pages of a finished run to disk as JSON documents.
package artifact

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/randalmurphal/contentflow/pkg/contentflow"
)

// PartialDir is the subdirectory used for runs that did not finish cleanly.
const PartialDir = "partial"

// SummaryName is the file name of the run summary document.
const SummaryName = "summary.json"

// Config holds configuration for an Exporter.
type Config struct {
	Dir    string       // Output directory (default: "output")
	Logger *slog.Logger // Logger for skipped pages (default: slog.Default())
}

// Exporter writes run output pages.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// Summary is the run summary written next to the pages.
type Summary struct {
	RunID    string   `json:"run_id,omitempty"`
	Outcome  string   `json:"outcome"`
	Complete bool     `json:"is_complete"`
	Pages    []string `json:"pages"`
	Errors   []string `json:"errors"`
}

// NewExporter creates an exporter with the given config.
func NewExporter(cfg Config) *Exporter {
	if cfg.Dir == "" {
		cfg.Dir = "output"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Exporter{dir: cfg.Dir, logger: cfg.Logger}
}

// Dir returns the directory pages for state are written to.
// Runs that are incomplete or ended on a fatal error go under PartialDir.
func (e *Exporter) Dir(state contentflow.State) string {
	if !state.IsComplete || state.HasFatalError() {
		return filepath.Join(e.dir, PartialDir)
	}
	return e.dir
}

// Export writes each present page to <dir>/<name>.json and returns the
// written paths in page order. Absent pages are skipped with a warning.
func (e *Exporter) Export(state contentflow.State) ([]string, error) {
	dir := e.Dir(state)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var paths []string
	for _, name := range contentflow.PageNames() {
		page := state.Page(name)
		if page == nil {
			e.logger.Warn("page not generated, skipping", "page", name)
			continue
		}
		path := filepath.Join(dir, name+".json")
		if err := writeJSON(path, page); err != nil {
			return paths, fmt.Errorf("write %s: %w", name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteSummary writes the run summary to <dir>/summary.json and returns its path.
func (e *Exporter) WriteSummary(runID string, state contentflow.State) (string, error) {
	dir := e.Dir(state)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	errs := state.ErrorStrings()
	pages := state.PresentPages()
	if pages == nil {
		pages = []string{}
	}
	summary := Summary{
		RunID:    runID,
		Outcome:  contentflow.Classify(state).String(),
		Complete: state.IsComplete,
		Pages:    pages,
		Errors:   errs,
	}

	path := filepath.Join(dir, SummaryName)
	if err := writeJSON(path, summary); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
