package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yunxiaoshu/eyeurl/internal/capture"
	"github.com/yunxiaoshu/eyeurl/internal/config"
	"github.com/yunxiaoshu/eyeurl/internal/orchestrate"
	"github.com/yunxiaoshu/eyeurl/internal/probe"
	"github.com/yunxiaoshu/eyeurl/internal/report"
	"github.com/yunxiaoshu/eyeurl/internal/retry"
	"github.com/yunxiaoshu/eyeurl/internal/ui"
	"github.com/yunxiaoshu/eyeurl/internal/urlfile"
	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

func runCapture(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}
	cfg.URLFile = args[0]

	urls, err := urlfile.Read(cfg.URLFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs found in %s", cfg.URLFile)
	}
	log.Info().Int("count", len(urls)).Str("file", cfg.URLFile).Msg("URL list loaded")

	writer, err := report.New(cfg.OutputDir, cfg.SaveText)
	if err != nil {
		return err
	}
	if detach, err := attachFileLog(filepath.Join(writer.LogDir(), "eyeurl.log")); err == nil {
		defer detach()
	} else {
		log.Warn().Err(err).Msg("Could not open log file, console only")
	}

	accessible, inaccessible := probeURLs(ctx, cfg, urls)
	if err := writer.WriteInaccessible(urls, inaccessible); err != nil {
		log.Warn().Err(err).Msg("Could not write inaccessible URL list")
	}

	var (
		results []*models.CaptureResult
		info    models.BatchInfo
	)
	if len(accessible) > 0 {
		results, info = captureAll(ctx, cfg, writer, accessible)
	} else {
		log.Warn().Msg("No reachable URLs, skipping capture")
	}

	if err := writer.WriteJSON(results); err != nil {
		return fmt.Errorf("writing data.json: %w", err)
	}
	if err := writer.WriteHTML(results, info); err != nil {
		return fmt.Errorf("writing index.html: %w", err)
	}

	ui.PrintSummary(os.Stdout, info, len(inaccessible), writer.Root())
	return nil
}

func probeURLs(ctx context.Context, cfg *config.Config, urls []string) ([]string, map[string]string) {
	prober := probe.New(probe.Options{
		Timeout:     cfg.ProbeTimeout,
		Concurrency: cfg.ProbeConcurrency,
		Retries:     cfg.ProbeRetries,
		UserAgent:   cfg.UserAgent,
	})
	accessible, inaccessible := prober.Probe(ctx, urls)
	log.Info().
		Int("accessible", len(accessible)).
		Int("inaccessible", len(inaccessible)).
		Msg("Availability check finished")
	return accessible, inaccessible
}

func captureAll(ctx context.Context, cfg *config.Config, writer *report.Writer, urls []string) ([]*models.CaptureResult, models.BatchInfo) {
	captureOpts := models.CaptureOptions{
		ScreenshotDir:   writer.ScreenshotDir(),
		TextDir:         writer.TextDir(),
		Width:           cfg.Width,
		Height:          cfg.Height,
		PageTimeout:     cfg.PageTimeout,
		NetworkIdle:     cfg.NetworkIdleTimeout,
		ExtraWait:       cfg.ExtraWait,
		FullPage:        cfg.FullPage,
		UserAgent:       cfg.UserAgent,
		IgnoreSSLErrors: cfg.IgnoreSSLErrors,
	}

	factory := func(ctx context.Context, workerID int) (orchestrate.Capturer, func(), error) {
		browser, err := capture.NewBrowser(capture.BrowserOptions{
			Width:           cfg.Width,
			Height:          cfg.Height,
			UserAgent:       cfg.UserAgent,
			IgnoreSSLErrors: cfg.IgnoreSSLErrors,
			ChromePath:      cfg.ChromePath,
		})
		if err != nil {
			return nil, nil, err
		}
		unit := capture.NewUnit(browser, captureOpts)
		c := &retryingCapturer{unit: unit, attempts: cfg.RetryCount}
		return c, func() { browser.Close() }, nil
	}

	orch := orchestrate.New(factory, orchestrate.Options{
		Workers:      cfg.Threads,
		ShowProgress: true,
	})
	return orch.Run(ctx, urls)
}

// retryingCapturer re-runs failed captures with backoff keyed to the failure
// category.
type retryingCapturer struct {
	unit     *capture.Unit
	attempts int
}

func (c *retryingCapturer) Capture(ctx context.Context, url string) *models.CaptureResult {
	return retry.Do(ctx, c.attempts, func(ctx context.Context) *models.CaptureResult {
		return c.unit.Capture(ctx, url)
	})
}
