package db

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient_PgErrorCodes(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		transient bool
	}{
		{name: "connection failure", code: "08006", transient: true},
		{name: "cannot connect now", code: "57P03", transient: true},
		{name: "too many connections", code: "53300", transient: true},
		{name: "serialization failure", code: "40001", transient: true},
		{name: "deadlock detected", code: "40P01", transient: true},
		{name: "lock not available", code: "55P03", transient: true},
		{name: "invalid password", code: "28P01", transient: false},
		{name: "undefined database", code: "3D000", transient: false},
		{name: "syntax error", code: "42601", transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code, Message: tt.name}
			assert.Equal(t, tt.transient, IsTransient(err))
		})
	}
}

func TestIsTransient_WrappedPgError(t *testing.T) {
	err := fmt.Errorf("dial database: %w", &pgconn.PgError{Code: "08001"})
	assert.True(t, IsTransient(err))
}

func TestIsTransient_NetworkErrors(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	assert.True(t, IsTransient(refused))

	reset := &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}
	assert.True(t, IsTransient(reset))

	dnsTimeout := &net.DNSError{Err: "lookup timeout", IsTimeout: true}
	assert.True(t, IsTransient(dnsTimeout))

	dnsPermanent := &net.DNSError{Err: "no answer"}
	assert.False(t, IsTransient(dnsPermanent))
}

func TestIsTransient_MessagePatterns(t *testing.T) {
	assert.True(t, IsTransient(errors.New("read tcp 10.0.0.1:5432: i/o timeout")))
	assert.True(t, IsTransient(errors.New("FATAL: the database system is starting up")))
	assert.False(t, IsTransient(errors.New("relation \"users\" does not exist")))
}

func TestIsTransient_Nil(t *testing.T) {
	assert.False(t, IsTransient(nil))
}
