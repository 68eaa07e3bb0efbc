// Package probe implements the availability check that partitions the input
// URL list before any browser work starts.
package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yunxiaoshu/eyeurl/internal/config"
	"github.com/yunxiaoshu/eyeurl/internal/ratelimit"
	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// Options configures a Prober.
type Options struct {
	Timeout     time.Duration // total budget per check, default 5s
	Concurrency int           // max in-flight checks, default 50
	Retries     int           // re-checks per URL on failure, default 0
	UserAgent   string
}

// Prober performs lightweight reachability checks. A URL is accessible when
// any HTTP response is obtained, whatever the status code. Only true
// connection failures (refused, DNS, timeout, malformed URL) are
// inaccessible; SSL and excessive-redirect errors count as accessible.
type Prober struct {
	opts    Options
	client  *http.Client
	limiter *ratelimit.HostLimiter
}

// New creates a Prober. Zero option fields get defaults.
func New(opts Options) *Prober {
	if opts.Timeout <= 0 {
		opts.Timeout = config.DefaultProbeTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = config.DefaultProbeConcurrency
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: opts.Timeout,
		}).DialContext,
		TLSHandshakeTimeout:   opts.Timeout,
		ResponseHeaderTimeout: opts.Timeout,
		MaxIdleConnsPerHost:   4,
		DisableKeepAlives:     true,
	}

	return &Prober{
		opts: opts,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errTooManyRedirects
				}
				return nil
			},
		},
		limiter: ratelimit.NewHostLimiter(config.DefaultProbeRPS, config.DefaultProbeBurst),
	}
}

var errTooManyRedirects = errors.New("too many redirects")

// Probe checks every URL concurrently and partitions the list into accessible
// URLs (order-preserving) and an inaccessible map of URL → reason. The two
// sets are disjoint and together cover the input. A single bad URL never
// fails the probe; only a cancelled context stops it early.
func (p *Prober) Probe(ctx context.Context, urls []string) (accessible []string, inaccessible map[string]string) {
	inaccessible = make(map[string]string)
	if len(urls) == 0 {
		return nil, inaccessible
	}

	log.Info().Int("urls", len(urls)).Int("concurrency", p.opts.Concurrency).Msg("Checking URL availability")
	start := time.Now()

	results := make([]models.AvailabilityResult, len(urls))
	sem := make(chan struct{}, p.opts.Concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, target string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = p.checkWithRetries(ctx, target)
		}(i, u)
	}
	wg.Wait()

	for _, res := range results {
		if res.Accessible {
			if res.Reason != "" {
				log.Debug().Str("url", res.URL).Str("note", res.Reason).Msg("Accessible with note")
			}
			accessible = append(accessible, res.URL)
		} else {
			inaccessible[res.URL] = res.Reason
		}
	}

	// A URL duplicated in the input can flip between outcomes across checks.
	// The partition is by URL string, so drop accessible entries that were
	// also classified inaccessible to keep the two sets disjoint.
	if len(inaccessible) > 0 {
		filtered := accessible[:0]
		for _, u := range accessible {
			if _, bad := inaccessible[u]; !bad {
				filtered = append(filtered, u)
			}
		}
		accessible = filtered
	}

	log.Info().
		Int("accessible", len(accessible)).
		Int("inaccessible", len(inaccessible)).
		Dur("elapsed", time.Since(start)).
		Msg("Availability check finished")

	return accessible, inaccessible
}

func (p *Prober) checkWithRetries(ctx context.Context, target string) models.AvailabilityResult {
	res := p.check(ctx, target)
	for attempt := 0; attempt < p.opts.Retries && !res.Accessible; attempt++ {
		select {
		case <-ctx.Done():
			return res
		case <-time.After(500 * time.Millisecond):
		}
		res = p.check(ctx, target)
	}
	return res
}

// check runs the three-step probe: HEAD, then GET, then a GET with the
// http/https scheme swapped. Success is any HTTP response.
func (p *Prober) check(ctx context.Context, target string) models.AvailabilityResult {
	res := models.AvailabilityResult{URL: target}

	if _, err := url.ParseRequestURI(target); err != nil {
		res.Reason = fmt.Sprintf("malformed URL: %v", err)
		return res
	}

	if err := p.limiter.Wait(ctx, target); err != nil {
		res.Reason = "probe cancelled"
		return res
	}

	var lastErr error
	for _, attempt := range []struct {
		method string
		url    string
	}{
		{http.MethodHead, target},
		{http.MethodGet, target},
		{http.MethodGet, swapScheme(target)},
	} {
		if attempt.url == "" {
			continue
		}
		err := p.request(ctx, attempt.method, attempt.url)
		if err == nil {
			res.Accessible = true
			return res
		}
		if note, tolerable := tolerableFailure(err); tolerable {
			// SSL and redirect-loop errors still mean something answered.
			res.Accessible = true
			res.Reason = note
			return res
		}
		lastErr = err
	}

	res.Reason = classifyFailure(lastErr)
	return res
}

// request issues one probe request and discards the body without reading it.
func (p *Prober) request(ctx context.Context, method, target string) error {
	reqCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, target, nil)
	if err != nil {
		return err
	}
	if p.opts.UserAgent != "" {
		req.Header.Set("User-Agent", p.opts.UserAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	// Status code is irrelevant: 404/403/500 all prove the host is up.
	// The body is deliberately not consumed; the probe only needs headers.
	resp.Body.Close()
	return nil
}

// swapScheme flips http↔https, returning "" when there is nothing to swap.
func swapScheme(target string) string {
	switch {
	case strings.HasPrefix(target, "https://"):
		return "http://" + strings.TrimPrefix(target, "https://")
	case strings.HasPrefix(target, "http://"):
		return "https://" + strings.TrimPrefix(target, "http://")
	}
	return ""
}

// tolerableFailure reports whether the error is one the defensive policy
// treats as accessible, with a human-readable note.
func tolerableFailure(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var certErr *tls.CertificateVerificationError
	var unknownAuth x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	switch {
	case errors.As(err, &certErr), errors.As(err, &unknownAuth), errors.As(err, &hostnameErr):
		return "SSL certificate error", true
	case errors.Is(err, errTooManyRedirects):
		return "excessive redirects", true
	}
	// tls alert errors surface as generic errors; match conservatively
	if strings.Contains(err.Error(), "tls:") || strings.Contains(err.Error(), "x509:") {
		return "SSL error", true
	}
	return "", false
}

// classifyFailure maps a connection failure to the reason recorded in
// inaccessible_urls.txt.
func classifyFailure(err error) string {
	if err == nil {
		return "connection error or timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "DNS resolution failed"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "connection timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "connection timeout"
	}
	if strings.Contains(err.Error(), "connection refused") {
		return "connection refused"
	}
	return "connection error or timeout"
}
