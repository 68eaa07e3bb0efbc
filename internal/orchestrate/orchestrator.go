// Package orchestrate runs captures across a worker pool and folds the
// per-URL results into a batch report.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/yunxiaoshu/eyeurl/internal/config"
	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// Capturer produces a result for a single URL. It must return a non-nil
// result even on failure.
type Capturer interface {
	Capture(ctx context.Context, url string) *models.CaptureResult
}

// WorkerFactory builds the Capturer a worker will use for its whole life,
// plus a cleanup function. Each worker gets its own instance so browser
// state is never shared across goroutines.
type WorkerFactory func(ctx context.Context, workerID int) (Capturer, func(), error)

type Options struct {
	Workers       int
	ResultTimeout time.Duration // per-task wait when draining results
	StallCeiling  time.Duration // abort the wait loop after this long with no completions
	ShowProgress  bool
}

type Orchestrator struct {
	factory WorkerFactory
	opts    Options
}

func New(factory WorkerFactory, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.ResultTimeout <= 0 {
		opts.ResultTimeout = config.DefaultResultFetchTimeout
	}
	if opts.StallCeiling <= 0 {
		opts.StallCeiling = config.DefaultProgressWaitCeiling
	}
	return &Orchestrator{factory: factory, opts: opts}
}

type task struct {
	url      string
	resultCh chan *models.CaptureResult // buffered, one result per task
}

// Run captures every URL and returns exactly one result per input, in input
// order. Workers that hang or panic never lose a slot: their tasks get
// synthesized failure results instead.
func (o *Orchestrator) Run(ctx context.Context, urls []string) ([]*models.CaptureResult, models.BatchInfo) {
	started := time.Now()
	workers := o.opts.Workers
	if workers > len(urls) {
		workers = len(urls)
	}

	tasks := make([]*task, len(urls))
	jobs := make(chan *task)
	for i, u := range urls {
		tasks[i] = &task{url: u, resultCh: make(chan *models.CaptureResult, 1)}
	}

	progress := NewProgress(len(urls))

	for w := 0; w < workers; w++ {
		go o.worker(ctx, w, jobs, progress)
	}

	go func() {
		defer close(jobs)
		for _, t := range tasks {
			select {
			case jobs <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	o.waitLoop(ctx, progress)

	// Workers still wedged on a hung page are abandoned here; the process
	// exits once the report is written.
	results := o.drain(tasks, progress)

	info := o.batchInfo(results, started, workers)
	stamp := map[string]any{
		"total_urls":    info.TotalURLs,
		"total_success": info.TotalSuccess,
		"total_failed":  info.TotalFailed,
		"batch_time":    info.BatchTime,
	}
	for _, r := range results {
		r.SetMeta("batch_info", stamp)
	}
	return results, info
}

func (o *Orchestrator) worker(ctx context.Context, id int, jobs <-chan *task, progress *Progress) {
	capturer, cleanup, err := o.factory(ctx, id)
	if err != nil {
		log.Error().Err(err).Int("worker", id).Msg("Worker initialization failed")
		for t := range jobs {
			r := models.NewCaptureResult(t.url)
			r.Fail(fmt.Sprintf("worker initialization failed: %v", err))
			progress.Record(false)
			t.resultCh <- r
		}
		return
	}
	defer cleanup()

	for t := range jobs {
		r := o.runTask(ctx, capturer, t.url)
		progress.Record(r.Success)
		t.resultCh <- r
	}
}

// runTask isolates a single capture so a panic inside the browser layer
// costs one URL, not the worker.
func (o *Orchestrator) runTask(ctx context.Context, c Capturer, url string) (result *models.CaptureResult) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("url", url).Interface("panic", rec).Msg("Capture panicked")
			result = models.NewCaptureResult(url)
			result.Fail(fmt.Sprintf("capture panicked: %v", rec))
		}
	}()

	result = c.Capture(ctx, url)
	if result == nil {
		result = models.NewCaptureResult(url)
		result.Fail("capture returned no result")
	}
	return result
}

// waitLoop blocks until every URL completes, the pool goes quiet for longer
// than the stall ceiling, or the context is cancelled. It also drives the
// terminal progress bar.
func (o *Orchestrator) waitLoop(ctx context.Context, progress *Progress) {
	var bar *progressbar.ProgressBar
	if o.opts.ShowProgress {
		bar = progressbar.NewOptions(int(progress.total),
			progressbar.OptionSetDescription("capturing"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionClearOnFinish(),
		)
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if bar != nil {
			_ = bar.Set(int(progress.Completed()))
			desc := fmt.Sprintf("capturing (ok %d, failed %d", progress.Success(), progress.Failed())
			if eta := progress.ETA(); eta > 0 {
				desc += fmt.Sprintf(", eta %s", eta.Round(time.Second))
			}
			bar.Describe(desc + ")")
		}

		if progress.Done() {
			if bar != nil {
				_ = bar.Finish()
			}
			return
		}
		if progress.SinceLastUpdate() > o.opts.StallCeiling {
			log.Warn().
				Dur("stalled", progress.SinceLastUpdate()).
				Int64("completed", progress.Completed()).
				Msg("No progress from worker pool, collecting what finished")
			return
		}
	}
}

// drain pulls each task's result, synthesizing a failure for any task whose
// worker never delivered within the per-task timeout.
func (o *Orchestrator) drain(tasks []*task, progress *Progress) []*models.CaptureResult {
	results := make([]*models.CaptureResult, len(tasks))
	for i, t := range tasks {
		select {
		case r := <-t.resultCh:
			results[i] = r
		case <-time.After(o.opts.ResultTimeout):
			log.Error().Str("url", t.url).Msg("Result retrieval timed out")
			r := models.NewCaptureResult(t.url)
			r.Fail("result retrieval timed out")
			progress.Record(false)
			results[i] = r
		}
	}
	return results
}

func (o *Orchestrator) batchInfo(results []*models.CaptureResult, started time.Time, workers int) models.BatchInfo {
	info := models.BatchInfo{TotalURLs: len(results)}
	var processing float64
	for _, r := range results {
		if r.Success {
			info.TotalSuccess++
		} else {
			info.TotalFailed++
		}
		processing += r.ProcessingTime
	}

	total := time.Since(started).Seconds()
	info.BatchTime = models.BatchTime{
		TotalTimeSeconds: total,
		ProcessingTime:   processing,
	}
	if len(results) > 0 {
		info.BatchTime.AverageURLTime = processing / float64(len(results))
	}
	if total > 0 && workers > 0 {
		info.BatchTime.ParallelEfficiency = processing / (total * float64(workers)) * 100
	}
	return info
}
