package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/redial/pkg/redial"
)

func TestExplainConnectionError(t *testing.T) {
	target := redial.Target{Driver: "postgres", DSN: "postgres://app@db:5432/app"}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "refused",
			err:  errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			want: "PostgreSQL is not running",
		},
		{
			name: "dns",
			err:  errors.New("lookup db.internal: no such host"),
			want: "Hostname is misspelled",
		},
		{
			name: "auth",
			err:  errors.New("FATAL: password authentication failed for user \"app\""),
			want: "PGPASSWORD",
		},
		{
			name: "timeout",
			err:  errors.New("dial tcp 10.0.0.1:5432: i/o timeout (timed out)"),
			want: "overloaded or unresponsive",
		},
		{
			name: "ssl",
			err:  errors.New("tls: failed to verify certificate"),
			want: "sslmode",
		},
		{
			name: "unclassified",
			err:  errors.New("something odd"),
			want: "failed to connect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explained := ExplainConnectionError(tt.err, target)
			require.Error(t, explained)
			assert.Contains(t, explained.Error(), tt.want)
			assert.ErrorIs(t, explained, tt.err, "the original error must stay unwrappable")
		})
	}
}

func TestExplainConnectionError_Nil(t *testing.T) {
	assert.NoError(t, ExplainConnectionError(nil, redial.Target{}))
}
