package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCaptureResult(t *testing.T) {
	r := NewCaptureResult("https://example.com")

	assert.Equal(t, "https://example.com", r.URL)
	assert.False(t, r.Success)
	assert.NotNil(t, r.MetaData)

	ts, err := time.Parse(time.RFC3339, r.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestFail(t *testing.T) {
	r := NewCaptureResult("https://example.com")
	r.Success = true

	r.Fail("connection refused")

	assert.False(t, r.Success)
	assert.Equal(t, "connection refused", r.Error)
}

func TestSetMeta_AllocatesMap(t *testing.T) {
	r := &CaptureResult{URL: "https://example.com"}
	r.SetMeta("key", 42)
	assert.Equal(t, 42, r.MetaData["key"])
}

func TestCaptureResult_JSONShape(t *testing.T) {
	r := NewCaptureResult("https://example.com")
	r.Success = true
	r.StatusCode = 200
	r.Screenshot = "shot.png"

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))

	for _, key := range []string{"url", "title", "status_code", "content_size",
		"screenshot", "timestamp", "error", "success", "meta_data", "processing_time"} {
		assert.Contains(t, m, key)
	}
	// Optional fields stay out of the export unless populated.
	assert.NotContains(t, m, "connection_error")
	assert.NotContains(t, m, "warning")

	r.ConnectionError = ConnRefused
	data, err = json.Marshal(r)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "REFUSED", m["connection_error"])
}
