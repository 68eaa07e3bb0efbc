package capture

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

func TestClassifyNavigationError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want models.ConnectionError
	}{
		{"nil", nil, ""},
		{"deadline", context.DeadlineExceeded, models.ConnTimeout},
		{"wrapped deadline", fmt.Errorf("navigate: %w", context.DeadlineExceeded), models.ConnTimeout},
		{"refused", errors.New("page load error net::ERR_CONNECTION_REFUSED"), models.ConnRefused},
		{"dns", errors.New("page load error net::ERR_NAME_NOT_RESOLVED"), models.ConnDNSFailed},
		{"timed out", errors.New("page load error net::ERR_TIMED_OUT"), models.ConnTimeout},
		{"cert", errors.New("page load error net::ERR_CERT_AUTHORITY_INVALID"), models.ConnSSLError},
		{"ssl", errors.New("page load error net::ERR_SSL_PROTOCOL_ERROR"), models.ConnSSLError},
		{"unrelated", errors.New("something else entirely"), models.ConnectionError("")},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classifyNavigationError(c.err); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}
