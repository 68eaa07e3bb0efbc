package orchestrate

import (
	"sync"
	"sync/atomic"
	"time"
)

const etaWindow = 10

// Progress tracks batch completion counts shared between workers and the
// display loop. Counter updates are atomic; the completion-time ring used
// for ETA estimates is guarded by a mutex.
type Progress struct {
	total     int64
	completed atomic.Int64
	success   atomic.Int64
	failed    atomic.Int64

	lastUpdate atomic.Int64 // unix nanos of the most recent completion

	mu      sync.Mutex
	recent  []time.Time
	started time.Time
}

func NewProgress(total int) *Progress {
	p := &Progress{
		total:   int64(total),
		recent:  make([]time.Time, 0, etaWindow),
		started: time.Now(),
	}
	p.lastUpdate.Store(p.started.UnixNano())
	return p
}

// Record registers one finished URL.
func (p *Progress) Record(success bool) {
	now := time.Now()
	p.completed.Add(1)
	if success {
		p.success.Add(1)
	} else {
		p.failed.Add(1)
	}
	p.lastUpdate.Store(now.UnixNano())

	p.mu.Lock()
	p.recent = append(p.recent, now)
	if len(p.recent) > etaWindow {
		p.recent = p.recent[1:]
	}
	p.mu.Unlock()
}

func (p *Progress) Completed() int64 { return p.completed.Load() }
func (p *Progress) Success() int64   { return p.success.Load() }
func (p *Progress) Failed() int64    { return p.failed.Load() }
func (p *Progress) Done() bool       { return p.completed.Load() >= p.total }

// SinceLastUpdate reports how long the batch has gone without any URL
// finishing. Used to detect a wedged pool.
func (p *Progress) SinceLastUpdate() time.Duration {
	return time.Since(time.Unix(0, p.lastUpdate.Load()))
}

// ETA estimates remaining time from a moving average over the most recent
// completions. Returns zero until enough samples exist.
func (p *Progress) ETA() time.Duration {
	remaining := p.total - p.completed.Load()
	if remaining <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.recent) < 2 {
		return 0
	}
	span := p.recent[len(p.recent)-1].Sub(p.recent[0])
	perURL := span / time.Duration(len(p.recent)-1)
	return perURL * time.Duration(remaining)
}
