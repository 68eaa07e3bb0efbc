// Package retry re-runs failed capture attempts with backoff differentiated
// by the kind of connection failure.
package retry

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// AttemptFunc runs one capture attempt and always returns a result.
type AttemptFunc func(ctx context.Context) *models.CaptureResult

// Do invokes fn up to maxAttempts times, stopping at the first attempt whose
// result carries no error. The final attempt's result is returned whatever
// its outcome. A success after retries records the attempt count in
// meta_data.retry_attempts.
func Do(ctx context.Context, maxAttempts int, fn AttemptFunc) *models.CaptureResult {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var result *models.CaptureResult
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			log.Info().Int("attempt", attempt+1).Int("max", maxAttempts).Msg("Retrying capture")
		}

		result = fn(ctx)
		if result.Error == "" {
			if attempt > 0 {
				result.SetMeta("retry_attempts", attempt+1)
				log.Info().Int("attempts", attempt+1).Str("url", result.URL).Msg("Retry succeeded")
			}
			return result
		}

		if attempt == maxAttempts-1 {
			break
		}

		wait := Backoff(result.ConnectionError, attempt)
		log.Info().
			Str("url", result.URL).
			Str("category", string(result.ConnectionError)).
			Dur("backoff", wait).
			Msg("Capture failed, backing off before retry")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return result
		}
	}

	log.Warn().Str("url", result.URL).Int("attempts", maxAttempts).Msg("All capture attempts failed")
	return result
}

// Backoff picks the wait before retry attempt+2. Refused connections get a
// long pause (the service may be restarting), timeouts longer still, and
// everything else a short jittered delay so simultaneous retries spread out.
func Backoff(category models.ConnectionError, attempt int) time.Duration {
	step := time.Duration(attempt) * 2 * time.Second
	switch category {
	case models.ConnRefused:
		return 3*time.Second + step + jitter(1*time.Second, 3*time.Second)
	case models.ConnTimeout:
		return 5*time.Second + step + jitter(2*time.Second, 5*time.Second)
	default:
		return 1*time.Second + jitter(500*time.Millisecond, 2*time.Second)
	}
}

func jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}
