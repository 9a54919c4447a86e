package db

import (
	"fmt"
	"strings"

	"github.com/vvka-141/redial/pkg/redial"
)

// ExplainConnectionError wraps a final connection failure with actionable
// guidance for the operator. It is applied once, after the retry budget is
// spent or retry was not applicable; the retry loop itself always reports
// the driver's own error.
func ExplainConnectionError(err error, target redial.Target) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		return fmt.Errorf(`connection refused by %s

Possible causes:
  - PostgreSQL is not running
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, target, err)

	case strings.Contains(msg, "no such host"):
		return fmt.Errorf(`cannot resolve host for %s

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, target, err)

	case strings.Contains(msg, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for %s

Possible causes:
  - Wrong password (check $PGPASSWORD or ~/.pgpass)
  - Wrong username or no access to the database

Original error: %w`, target, err)

	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, target, err)

	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		return fmt.Errorf(`SSL/TLS connection error for %s

Possible causes:
  - Server requires SSL but sslmode is wrong
  - Certificate verification failed

Original error: %w`, target, err)

	case strings.Contains(msg, "too many connections"):
		return fmt.Errorf(`too many connections at %s

Possible causes:
  - max_connections limit reached on the server
  - Stale connections holding slots

Original error: %w`, target, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", target, err)
	}
}
