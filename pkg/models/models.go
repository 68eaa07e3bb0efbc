package models

import "time"

// ConnectionError categorizes navigation failures so the retry layer can pick
// an appropriate backoff. Empty means the error was not connection-related.
type ConnectionError string

const (
	ConnRefused   ConnectionError = "REFUSED"
	ConnDNSFailed ConnectionError = "DNS_FAILED"
	ConnTimeout   ConnectionError = "TIMEOUT"
	ConnSSLError  ConnectionError = "SSL_ERROR"
)

// CaptureResult is the record produced for every accessible URL. The JSON
// shape is what lands in data.json and what the HTML report reads.
type CaptureResult struct {
	URL             string          `json:"url"`
	Title           string          `json:"title"`
	StatusCode      int             `json:"status_code"`
	ContentSize     int64           `json:"content_size"`
	Screenshot      string          `json:"screenshot"`
	Timestamp       string          `json:"timestamp"`
	Error           string          `json:"error"`
	Success         bool            `json:"success"`
	ConnectionError ConnectionError `json:"connection_error,omitempty"`
	Warning         string          `json:"warning,omitempty"`
	MetaData        map[string]any  `json:"meta_data"`
	ProcessingTime  float64         `json:"processing_time"`
}

// NewCaptureResult returns a result skeleton for the given URL with the
// timestamp set to now. Callers fill in the outcome fields.
func NewCaptureResult(url string) *CaptureResult {
	return &CaptureResult{
		URL:       url,
		Timestamp: time.Now().Format(time.RFC3339),
		MetaData:  make(map[string]any),
	}
}

// Fail marks the result as failed with the given error message.
func (r *CaptureResult) Fail(msg string) *CaptureResult {
	r.Success = false
	r.Error = msg
	return r
}

// SetMeta stores a metadata key, allocating the map if needed.
func (r *CaptureResult) SetMeta(key string, value any) {
	if r.MetaData == nil {
		r.MetaData = make(map[string]any)
	}
	r.MetaData[key] = value
}

// AvailabilityResult is the outcome of one reachability check. Reason is set
// when the URL is inaccessible, or carries an informational note (SSL error,
// redirect loop) on URLs that are still counted accessible.
type AvailabilityResult struct {
	URL        string
	Accessible bool
	Reason     string
}

// BatchTime aggregates wall-clock and per-task timing for a finished batch.
type BatchTime struct {
	TotalTimeSeconds   float64 `json:"total_time_seconds"`
	ProcessingTime     float64 `json:"processing_time"`
	ParallelEfficiency float64 `json:"parallel_efficiency"`
	AverageURLTime     float64 `json:"average_url_time"`
}

// BatchInfo summarizes an orchestration run. It is computed once after all
// results are collected and merged into every result's meta_data.
type BatchInfo struct {
	TotalURLs    int       `json:"total_urls"`
	TotalSuccess int       `json:"total_success"`
	TotalFailed  int       `json:"total_failed"`
	BatchTime    BatchTime `json:"batch_time"`
}

// CaptureOptions carries the per-URL capture parameters from the CLI down to
// the capture unit. Durations are absolute budgets, not hints.
type CaptureOptions struct {
	ScreenshotDir   string
	TextDir         string // non-empty enables per-page markdown extracts
	Width           int
	Height          int
	PageTimeout     time.Duration
	NetworkIdle     time.Duration
	ExtraWait       time.Duration
	FullPage        bool
	UserAgent       string
	IgnoreSSLErrors bool
}
