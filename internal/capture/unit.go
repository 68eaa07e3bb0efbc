// Package capture drives one headless-Chrome tab through the staged
// navigate/wait/screenshot pipeline for a single URL.
package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"

	"github.com/yunxiaoshu/eyeurl/internal/output"
	"github.com/yunxiaoshu/eyeurl/internal/utils/urlutil"
	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// maxAttemptTime is the hard ceiling for one capture attempt regardless of
// how the per-stage timeouts stack.
const maxAttemptTime = 120 * time.Second

// scrollScript scrolls to the bottom in 300px steps (2s cap) and returns to
// the top, eliciting lazy-loaded content before the screenshot.
const scrollScript = `new Promise((resolve) => {
	let total = 0;
	const distance = 300;
	const started = Date.now();
	const timer = setInterval(() => {
		window.scrollBy(0, distance);
		total += distance;
		if (total >= document.body.scrollHeight || Date.now() - started > 2000) {
			clearInterval(timer);
			window.scrollTo(0, 0);
			resolve();
		}
	}, 100);
})`

// Unit captures a single URL per call, reusing its worker's Browser and
// opening a fresh tab each time.
type Unit struct {
	browser *Browser
	opts    models.CaptureOptions
}

// NewUnit creates a capture unit bound to a browser.
func NewUnit(b *Browser, opts models.CaptureOptions) *Unit {
	return &Unit{browser: b, opts: opts}
}

// Capture runs one attempt of the full pipeline and always returns a result:
// success implies a non-empty screenshot file on disk, failure implies a
// non-empty error. The attempt never exceeds min(120s, 3×page timeout).
func (u *Unit) Capture(ctx context.Context, pageURL string) *models.CaptureResult {
	start := time.Now()
	result := models.NewCaptureResult(pageURL)
	defer func() {
		result.ProcessingTime = time.Since(start).Seconds()
	}()

	ceiling := 3 * u.opts.PageTimeout
	if ceiling > maxAttemptTime {
		ceiling = maxAttemptTime
	}
	deadline := start.Add(ceiling)

	log.Debug().Str("url", pageURL).Dur("ceiling", ceiling).Msg("Capture attempt starting")

	// Stage 1: fresh tab on the worker's browser. Failure here is fatal to
	// the attempt; there is nothing to screenshot.
	tab, closeTab, err := u.browser.NewTab()
	if err != nil {
		return result.Fail(fmt.Sprintf("browser context: %v", err))
	}
	defer closeTab()

	tracker := trackNetwork(tab)

	// Stage 2: navigate, returning as soon as the navigation is committed.
	navCtx, cancelNav := context.WithTimeout(tab, u.opts.PageTimeout)
	defer cancelNav()
	err = chromedp.Run(navCtx,
		network.Enable(),
		chromedp.EmulateViewport(int64(u.opts.Width), int64(u.opts.Height)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, _, errText, _, err := page.Navigate(pageURL).Do(ctx)
			if err != nil {
				return err
			}
			if errText != "" {
				return fmt.Errorf("navigation failed: %s", errText)
			}
			return nil
		}),
	)
	if err != nil {
		result.ConnectionError = classifyNavigationError(err)
		return result.Fail(fmt.Sprintf("navigate: %v", err))
	}

	// Stage 3: the committed navigation must have produced a response.
	if !u.waitDocumentResponse(tab, tracker, 2*time.Second) {
		return result.Fail("no response received for navigation")
	}
	result.StatusCode = tracker.DocumentStatus()
	result.ContentSize = tracker.DocumentContentSize()
	log.Debug().Str("url", pageURL).Int("status", result.StatusCode).Msg("Page committed")

	// Stage 4: layered waits, each best-effort and individually time-boxed.
	shortWait := u.opts.PageTimeout
	if shortWait > 8*time.Second {
		shortWait = 8 * time.Second
	}
	tryWithTimeout(tab, shortWait, "dom-ready", waitDOMReady())
	if u.expired(deadline) {
		return u.partial(tab, result)
	}

	idleWait := u.opts.NetworkIdle
	if idleWait > 5*time.Second {
		idleWait = 5 * time.Second
	}
	tracker.WaitIdle(tab, 500*time.Millisecond, idleWait)
	if u.expired(deadline) {
		return u.partial(tab, result)
	}

	tryWithTimeout(tab, shortWait, "load-event", waitLoadComplete())
	tryWithTimeout(tab, 8*time.Second, "body-visible", chromedp.WaitVisible("body", chromedp.ByQuery))
	if u.expired(deadline) {
		return u.partial(tab, result)
	}

	// Stage 5: elicit lazy-loaded content by scrolling down and back.
	tryWithTimeout(tab, 3*time.Second, "lazy-scroll",
		chromedp.Evaluate(scrollScript, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}))
	if u.expired(deadline) {
		return u.partial(tab, result)
	}

	// Stage 6: optional settle time for late animations.
	if u.opts.ExtraWait > 0 {
		extra := u.opts.ExtraWait
		if extra > 5*time.Second {
			extra = 5 * time.Second
		}
		select {
		case <-time.After(extra):
		case <-ctx.Done():
		}
	}

	// Stage 7: metadata, every piece individually non-fatal.
	var html string
	tryWithTimeout(tab, 5*time.Second, "page-html", chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	if result.ContentSize == 0 && html != "" {
		result.ContentSize = int64(len(html))
	}

	var title string
	if tryWithTimeout(tab, 3*time.Second, "title", chromedp.Title(&title)) && title != "" {
		result.Title = title
	} else {
		result.Title = pageURL
	}

	if html != "" {
		meta := extractMeta(html, pageURL)
		if meta.Description != "" {
			result.SetMeta("description", meta.Description)
		}
		if meta.Favicon != "" {
			result.SetMeta("favicon", meta.Favicon)
		}
	}

	if u.expired(deadline) {
		return u.partial(tab, result)
	}

	// Stage 8: screenshot, with viewport fallback when full-page fails.
	if err := u.screenshot(tab, result, u.opts.FullPage); err != nil {
		return result.Fail(fmt.Sprintf("screenshot: %v", err))
	}

	// Stage 9 (teardown) is the deferred tab close.

	if u.opts.TextDir != "" && html != "" {
		if err := output.SaveMarkdown(html, pageURL, u.opts.TextDir); err != nil {
			log.Debug().Str("url", pageURL).Err(err).Msg("Text extract failed")
		}
	}

	return result
}

// waitDocumentResponse gives the CDP event loop a moment to deliver the main
// document's response metadata after commit.
func (u *Unit) waitDocumentResponse(ctx context.Context, tracker *networkTracker, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for tracker.DocumentStatus() == 0 {
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
	return true
}

// screenshot captures the page to a deterministic file. A failed full-page
// capture falls back to viewport-only before the attempt is declared failed.
func (u *Unit) screenshot(tab context.Context, result *models.CaptureResult, fullPage bool) error {
	var buf []byte
	shotCtx, cancel := context.WithTimeout(tab, 8*time.Second)
	defer cancel()

	var err error
	if fullPage {
		err = chromedp.Run(shotCtx, chromedp.FullScreenshot(&buf, 100))
		if err != nil || len(buf) == 0 {
			log.Debug().Str("url", result.URL).Err(err).Msg("Full-page screenshot failed, trying viewport")
			fbCtx, cancelFb := context.WithTimeout(tab, 8*time.Second)
			defer cancelFb()
			if fbErr := chromedp.Run(fbCtx, chromedp.CaptureScreenshot(&buf)); fbErr == nil && len(buf) > 0 {
				result.Warning = "full-page screenshot failed, captured viewport only"
				result.SetMeta("screenshot_type", "visible_only")
				err = nil
			} else if fbErr != nil {
				err = fbErr
			}
		}
	} else {
		err = chromedp.Run(shotCtx, chromedp.CaptureScreenshot(&buf))
	}
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return fmt.Errorf("empty screenshot buffer")
	}

	name := urlutil.SafeFilename(result.URL, ".png")
	path := filepath.Join(u.opts.ScreenshotDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	result.Screenshot = name
	result.Success = true
	result.SetMeta("screenshot_size", len(buf))
	return nil
}

// partial handles the absolute-timeout path: one last best-effort viewport
// screenshot, then return immediately with the result marked partial.
func (u *Unit) partial(tab context.Context, result *models.CaptureResult) *models.CaptureResult {
	log.Debug().Str("url", result.URL).Msg("Absolute attempt timeout exceeded, taking emergency screenshot")

	if err := u.screenshot(tab, result, false); err != nil {
		result.ConnectionError = models.ConnTimeout
		return result.Fail("absolute capture timeout exceeded")
	}
	result.Warning = "partial capture: absolute timeout exceeded mid-pipeline"
	result.SetMeta("screenshot_type", "partial")
	return result
}

// expired reports whether the attempt's absolute deadline has passed.
func (u *Unit) expired(deadline time.Time) bool {
	return time.Now().After(deadline)
}
