package capture

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// tryWithTimeout runs a best-effort stage against a timeout-bounded child of
// the tab context and reports whether it finished in time. Expiry cancels
// only the stage, never the tab, so the pipeline always regains control.
func tryWithTimeout(ctx context.Context, d time.Duration, stage string, actions ...chromedp.Action) bool {
	stageCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	start := time.Now()
	if err := chromedp.Run(stageCtx, actions...); err != nil {
		log.Debug().Str("stage", stage).Dur("budget", d).Err(err).Msg("Wait stage gave up")
		return false
	}
	log.Debug().Str("stage", stage).Dur("took", time.Since(start)).Msg("Wait stage done")
	return true
}

// waitDOMReady waits until the document has left the "loading" state.
func waitDOMReady() chromedp.Action {
	return chromedp.Poll(`document.readyState !== "loading"`, nil, chromedp.WithPollingInterval(100*time.Millisecond))
}

// waitLoadComplete waits for the full load event.
func waitLoadComplete() chromedp.Action {
	return chromedp.Poll(`document.readyState === "complete"`, nil, chromedp.WithPollingInterval(100*time.Millisecond))
}

// networkTracker counts in-flight requests on a tab so the pipeline can wait
// for a network-idle window. It also remembers the main document response.
type networkTracker struct {
	mu       sync.Mutex
	inflight map[network.RequestID]struct{}
	lastDone time.Time

	docStatus      int
	docContentSize int64
}

// trackNetwork attaches a tracker to the tab context. network.Enable must be
// run on the tab before events flow.
func trackNetwork(ctx context.Context) *networkTracker {
	t := &networkTracker{
		inflight: make(map[network.RequestID]struct{}),
		lastDone: time.Now(),
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev := ev.(type) {
		case *network.EventRequestWillBeSent:
			t.mu.Lock()
			t.inflight[ev.RequestID] = struct{}{}
			t.mu.Unlock()
		case *network.EventLoadingFinished:
			t.done(ev.RequestID)
		case *network.EventLoadingFailed:
			t.done(ev.RequestID)
		case *network.EventResponseReceived:
			if ev.Type == network.ResourceTypeDocument {
				t.mu.Lock()
				if t.docStatus == 0 {
					t.docStatus = int(ev.Response.Status)
					if v, ok := ev.Response.Headers["Content-Length"]; ok {
						if s, ok := v.(string); ok {
							t.docContentSize = parseContentLength(s)
						}
					}
				}
				t.mu.Unlock()
			}
		}
	})

	return t
}

func (t *networkTracker) done(id network.RequestID) {
	t.mu.Lock()
	delete(t.inflight, id)
	t.lastDone = time.Now()
	t.mu.Unlock()
}

// DocumentStatus returns the main document's HTTP status, 0 if none was seen.
func (t *networkTracker) DocumentStatus() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.docStatus
}

// DocumentContentSize returns the Content-Length of the main document, 0 when
// the header was absent.
func (t *networkTracker) DocumentContentSize() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.docContentSize
}

// WaitIdle blocks until no request has been in flight for the quiet period,
// or the timeout expires. Returns true on a genuine idle window.
func (t *networkTracker) WaitIdle(ctx context.Context, quiet, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		t.mu.Lock()
		idle := len(t.inflight) == 0 && time.Since(t.lastDone) >= quiet
		t.mu.Unlock()
		if idle {
			return true
		}
		if time.Now().After(deadline) {
			log.Debug().Dur("budget", timeout).Msg("Network-idle wait gave up")
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

func parseContentLength(s string) int64 {
	var n int64
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int64(c-'0')
	}
	return n
}
