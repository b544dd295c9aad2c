package llm

import (
	"errors"
	"net"
)

// Sentinels every client maps its failures onto. Match them with errors.Is.
var (
	ErrMissingAPIKey       = errors.New("llm api key not configured")
	ErrProviderUnavailable = errors.New("llm provider unavailable")
	ErrTimeout             = errors.New("llm request timed out")
	ErrInvalidOutput       = errors.New("invalid llm output format")
	ErrRetryExhausted      = errors.New("llm retry attempts exhausted")
)

func isConnectionError(err error) bool {
	var opErr *net.OpError
	return err != nil && errors.As(err, &opErr)
}

// errorCode is the short label recorded on failed call events.
func errorCode(err error) string {
	codes := []struct {
		target error
		code   string
	}{
		{ErrTimeout, "TIMEOUT"},
		{ErrProviderUnavailable, "UNAVAILABLE"},
		{ErrMissingAPIKey, "NO_API_KEY"},
		{ErrInvalidOutput, "INVALID_OUTPUT"},
	}
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return "UNKNOWN"
}
