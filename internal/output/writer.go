// Package output writes processed-claim artifacts and the run summary.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/claims-cli/internal/model"
)

// Writer persists final claim records as timestamped JSON artifacts.
type Writer struct {
	dir string
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteClaim stores a finalized claim record as
// processed_<claim_id>_<timestamp>.json and returns the artifact path.
func (w *Writer) WriteClaim(rec model.ClaimRecord, now time.Time) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "output: create dir %s", w.dir)
	}

	name := fmt.Sprintf("processed_%s_%s.json", rec.ClaimID, now.Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", eris.Wrapf(err, "output: marshal claim %s", rec.ClaimID)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "output: write %s", path)
	}
	return path, nil
}

// WriteSummary stores the run summary next to the processed artifacts.
// Written once, at the end of a run.
func (w *Writer) WriteSummary(summary *model.RunSummary) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "output: create dir %s", w.dir)
	}

	name := fmt.Sprintf("summary_%s.json", summary.StartedAt.Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "output: marshal summary")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "output: write %s", path)
	}
	return path, nil
}
