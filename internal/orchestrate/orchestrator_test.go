package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// fakeCapturer drives the pool without a browser. Behavior is keyed on URL
// substrings.
type fakeCapturer struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeCapturer) Capture(ctx context.Context, url string) *models.CaptureResult {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()

	switch {
	case strings.Contains(url, "hang"):
		<-ctx.Done()
		return models.NewCaptureResult(url).Fail("cancelled")
	case strings.Contains(url, "panic"):
		panic("browser exploded")
	case strings.Contains(url, "fail"):
		r := models.NewCaptureResult(url)
		r.ProcessingTime = 0.1
		return r.Fail("capture failed")
	default:
		r := models.NewCaptureResult(url)
		r.Success = true
		r.Screenshot = "shot.png"
		r.ProcessingTime = 0.1
		return r
	}
}

func fakeFactory(f *fakeCapturer) WorkerFactory {
	return func(ctx context.Context, workerID int) (Capturer, func(), error) {
		return f, func() {}, nil
	}
}

func TestRun_OneResultPerURLInOrder(t *testing.T) {
	urls := []string{
		"https://a.example",
		"https://b.example/fail",
		"https://a.example", // duplicate on purpose
		"https://c.example",
	}
	orch := New(fakeFactory(&fakeCapturer{}), Options{Workers: 2})

	results, info := orch.Run(context.Background(), urls)

	require.Len(t, results, len(urls))
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL, "result %d out of order", i)
	}
	assert.Equal(t, 4, info.TotalURLs)
	assert.Equal(t, 3, info.TotalSuccess)
	assert.Equal(t, 1, info.TotalFailed)
}

func TestRun_PanicBecomesFailureResult(t *testing.T) {
	urls := []string{"https://ok.example", "https://panic.example", "https://ok2.example"}
	orch := New(fakeFactory(&fakeCapturer{}), Options{Workers: 2})

	results, info := orch.Run(context.Background(), urls)

	require.Len(t, results, 3)
	assert.False(t, results[1].Success)
	assert.Contains(t, results[1].Error, "panicked")
	assert.Equal(t, 2, info.TotalSuccess)
	assert.Equal(t, 1, info.TotalFailed)
}

func TestRun_HungWorkerSynthesizesResult(t *testing.T) {
	urls := []string{"https://ok.example", "https://hang.example"}
	orch := New(fakeFactory(&fakeCapturer{}), Options{
		Workers:       2,
		ResultTimeout: 200 * time.Millisecond,
		StallCeiling:  300 * time.Millisecond,
	})

	results, info := orch.Run(context.Background(), urls)

	require.Len(t, results, 2)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Equal(t, "result retrieval timed out", results[1].Error)
	assert.Equal(t, urls[1], results[1].URL)
	assert.Equal(t, 1, info.TotalFailed)
}

func TestRun_FactoryFailureSynthesizesResults(t *testing.T) {
	factory := func(ctx context.Context, workerID int) (Capturer, func(), error) {
		return nil, nil, fmt.Errorf("no chrome binary")
	}
	orch := New(factory, Options{Workers: 2, StallCeiling: time.Second})

	results, info := orch.Run(context.Background(), []string{"https://a.example", "https://b.example"})

	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Success)
		assert.Contains(t, r.Error, "worker initialization failed")
	}
	assert.Equal(t, 2, info.TotalFailed)
}

func TestRun_BatchInfoStampedOnEveryResult(t *testing.T) {
	orch := New(fakeFactory(&fakeCapturer{}), Options{Workers: 1})

	results, info := orch.Run(context.Background(), []string{"https://a.example", "https://b.example"})

	for _, r := range results {
		stamp, ok := r.MetaData["batch_info"].(map[string]any)
		require.True(t, ok, "batch_info missing on %s", r.URL)
		assert.Equal(t, info.TotalURLs, stamp["total_urls"])
		assert.Equal(t, info.TotalSuccess, stamp["total_success"])
	}
}

func TestRun_BatchTimeArithmetic(t *testing.T) {
	orch := New(fakeFactory(&fakeCapturer{}), Options{Workers: 2})

	results, info := orch.Run(context.Background(), []string{
		"https://a.example", "https://b.example", "https://c.example/fail",
	})

	var processing float64
	for _, r := range results {
		processing += r.ProcessingTime
	}
	assert.InDelta(t, processing, info.BatchTime.ProcessingTime, 1e-9)
	assert.InDelta(t, processing/3, info.BatchTime.AverageURLTime, 1e-9)
	assert.Greater(t, info.BatchTime.TotalTimeSeconds, 0.0)
}

func TestProgress_ETA(t *testing.T) {
	p := NewProgress(10)
	assert.Zero(t, p.ETA(), "no samples yet")

	p.Record(true)
	time.Sleep(5 * time.Millisecond)
	p.Record(true)
	time.Sleep(5 * time.Millisecond)
	p.Record(false)

	assert.Equal(t, int64(3), p.Completed())
	assert.Equal(t, int64(2), p.Success())
	assert.Equal(t, int64(1), p.Failed())
	assert.Greater(t, p.ETA(), time.Duration(0))
	assert.False(t, p.Done())
}

func TestProgress_Done(t *testing.T) {
	p := NewProgress(2)
	p.Record(true)
	p.Record(true)
	assert.True(t, p.Done())
	assert.Zero(t, p.ETA())
}
