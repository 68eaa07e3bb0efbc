// Package report lays out the per-run output directory and writes the data
// exports a batch produces.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// Writer owns a timestamped run directory under the configured output root:
//
//	report_20060102_150405/
//	  screenshots/
//	  logs/
//	  text/            (only with markdown extracts enabled)
//	  data.json
//	  index.html
//	  inaccessible_urls.txt   (only when some URLs were unreachable)
type Writer struct {
	root     string
	saveText bool
}

// New creates the run directory tree and returns a Writer rooted in it.
func New(outputDir string, saveText bool) (*Writer, error) {
	root := filepath.Join(outputDir, "report_"+time.Now().Format("20060102_150405"))
	w := &Writer{root: root, saveText: saveText}

	dirs := []string{w.ScreenshotDir(), w.LogDir()}
	if saveText {
		dirs = append(dirs, w.TextDir())
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating report directory %s: %w", d, err)
		}
	}
	log.Info().Str("dir", root).Msg("Report directory created")
	return w, nil
}

func (w *Writer) Root() string          { return w.root }
func (w *Writer) ScreenshotDir() string { return filepath.Join(w.root, "screenshots") }
func (w *Writer) LogDir() string        { return filepath.Join(w.root, "logs") }

// TextDir returns the markdown extract directory, or "" when extracts are
// disabled so the capture layer skips them.
func (w *Writer) TextDir() string {
	if !w.saveText {
		return ""
	}
	return filepath.Join(w.root, "text")
}

// WriteJSON exports every capture result to data.json.
func (w *Writer) WriteJSON(results []*models.CaptureResult) error {
	content, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	return os.WriteFile(filepath.Join(w.root, "data.json"), content, 0o644)
}

// WriteInaccessible records URLs that failed the availability check, one per
// line with the failure reason. Nothing is written when all URLs were
// reachable. The input order is preserved.
func (w *Writer) WriteInaccessible(urls []string, reasons map[string]string) error {
	if len(reasons) == 0 {
		return nil
	}

	f, err := os.Create(filepath.Join(w.root, "inaccessible_urls.txt"))
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "# %d inaccessible URLs\n", len(reasons)); err != nil {
		return err
	}
	seen := make(map[string]bool, len(reasons))
	for _, u := range urls {
		reason, ok := reasons[u]
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		if _, err := fmt.Fprintf(f, "%s\t%s\n", u, reason); err != nil {
			return err
		}
	}
	return nil
}
