package capture

import (
	"context"
	"errors"
	"strings"

	"github.com/yunxiaoshu/eyeurl/pkg/models"
)

// classifyNavigationError maps a navigation failure onto a connection-error
// category. Chrome reports network failures as net::ERR_* codes in the
// navigation error text; context expiry means the page timeout fired.
func classifyNavigationError(err error) models.ConnectionError {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.ConnTimeout
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "ERR_CONNECTION_REFUSED"):
		return models.ConnRefused
	case strings.Contains(msg, "ERR_NAME_NOT_RESOLVED"),
		strings.Contains(msg, "ERR_NAME_RESOLUTION_FAILED"):
		return models.ConnDNSFailed
	case strings.Contains(msg, "ERR_CONNECTION_TIMED_OUT"),
		strings.Contains(msg, "ERR_TIMED_OUT"),
		strings.Contains(msg, "deadline exceeded"):
		return models.ConnTimeout
	case strings.Contains(msg, "ERR_SSL_PROTOCOL_ERROR"),
		strings.Contains(msg, "ERR_CERT_"),
		strings.Contains(msg, "ERR_SSL_"):
		return models.ConnSSLError
	}
	return ""
}
