package redial

import "fmt"

// Target identifies a single connect destination. Driver names the target
// class a provider chain is registered under; DSN and Attrs carry the exact
// arguments of the failing call so providers can vary policy per target,
// not just per driver.
type Target struct {
	// Driver is the target class, e.g. "postgres".
	Driver string

	// DSN is the connection string handed to the underlying primitive.
	DSN string

	// Attrs carries additional dial arguments providers may inspect.
	// May be nil.
	Attrs map[string]string
}

// String returns the target identity used in log events. The DSN is
// redacted to avoid leaking credentials into logs.
func (t Target) String() string {
	return fmt.Sprintf("%s://%s", t.Driver, redactDSN(t.DSN))
}

// redactDSN strips everything between "://" and the last "@" so
// user:password pairs never reach a log line.
func redactDSN(dsn string) string {
	start := -1
	for i := 0; i+2 < len(dsn); i++ {
		if dsn[i] == ':' && dsn[i+1] == '/' && dsn[i+2] == '/' {
			start = i + 3
			break
		}
	}
	if start < 0 {
		return dsn
	}
	at := -1
	for i := len(dsn) - 1; i >= start; i-- {
		if dsn[i] == '@' {
			at = i
			break
		}
	}
	if at < 0 {
		return dsn[start:]
	}
	return "***@" + dsn[at+1:]
}
