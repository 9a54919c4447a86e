package db

import (
	"errors"
	"net"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes for transient conditions outside the class
// prefixes handled below.
// See: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeSerializationFailure = "40001" // Class 40 - Transaction Rollback
	pgCodeDeadlockDetected     = "40P01"
	pgCodeLockNotAvailable     = "55P03" // Class 55 - Object Not In Prerequisite State
)

// IsTransient reports whether a dial error is temporary and worth
// retrying. Pass it to redial.WithRetryIf to make authentication and
// similar fatal failures return immediately instead of burning the budget.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientPgError(pgErr)
	}

	if isNetworkError(err) {
		return true
	}

	return hasTransientMessage(err)
}

func isTransientPgError(pgErr *pgconn.PgError) bool {
	code := pgErr.Code

	switch {
	case strings.HasPrefix(code, "08"): // Connection Exception
		return true
	case strings.HasPrefix(code, "53"): // Insufficient Resources
		return true
	case strings.HasPrefix(code, "57"): // Operator Intervention
		return true
	}

	switch code {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeLockNotAvailable:
		return true
	}

	return false
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Temporary() || opErr.Timeout() {
			return true
		}
		for _, errno := range []syscall.Errno{
			syscall.ECONNREFUSED,
			syscall.ECONNRESET,
			syscall.ENETUNREACH,
			syscall.EHOSTUNREACH,
		} {
			if errors.Is(opErr.Err, errno) {
				return true
			}
		}
	}

	return false
}

// transientPatterns covers errors that arrive as bare strings from the
// driver or intermediate layers.
var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"connection timeout",
	"connection failure",
	"no such host",
	"network is unreachable",
	"i/o timeout",
	"broken pipe",
	"too many connections",
	"server closed the connection",
	"unexpected eof",
	"cannot connect now",
	"the database system is starting up",
}

func hasTransientMessage(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
