package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork matches every NetworkError.
	ErrNetwork = errors.New("network error")
	// ErrProtocol matches every ProtocolError.
	ErrProtocol = errors.New("protocol error")
)

const maxBodyInError = 512

// NetworkError covers connection failures, timeouts, cancellation and
// non-2xx responses. StatusCode is 0 when no response was received.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("failed to %s: %s returned %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
		if e.Body != "" {
			msg += ": " + truncate(e.Body)
		}
		return msg
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ProtocolError reports a response whose body does not have the expected
// shape.
type ProtocolError struct {
	Op   string
	Body string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("failed to %s: unexpected response from server: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool { return target == ErrProtocol }

// IsNetwork returns true if err is a NetworkError.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsProtocol returns true if err is a ProtocolError.
func IsProtocol(err error) bool {
	return errors.Is(err, ErrProtocol)
}

// IsUnauthorized returns true if the server rejected the credentials.
func IsUnauthorized(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.StatusCode == http.StatusUnauthorized || ne.StatusCode == http.StatusForbidden
	}
	return false
}

func truncate(s string) string {
	if len(s) <= maxBodyInError {
		return s
	}
	return s[:maxBodyInError] + "..."
}
