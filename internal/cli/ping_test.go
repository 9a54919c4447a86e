package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/redial/internal/db"
	"github.com/vvka-141/redial/internal/logging"
	"github.com/vvka-141/redial/pkg/redial"
)

func newVerboseCmd(t *testing.T, count int) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().CountP("verbose", "v", "")
	for i := 0; i < count; i++ {
		require.NoError(t, cmd.Flags().Set("verbose", "+1"))
	}
	return cmd
}

func TestVerbosityFromFlags(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		envDefault int
		want       int
	}{
		{name: "no flags uses env default", count: 0, envDefault: 3, want: 3},
		{name: "single v starts at state logging", count: 1, envDefault: 0, want: 2},
		{name: "vv logs pauses", count: 2, envDefault: 0, want: 3},
		{name: "vvv logs budget detail", count: 3, envDefault: 0, want: 4},
		{name: "extra v clamps", count: 5, envDefault: 0, want: 4},
		{name: "flags beat env", count: 1, envDefault: 4, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newVerboseCmd(t, tt.count)
			assert.Equal(t, tt.want, verbosityFromFlags(cmd, tt.envDefault))
		})
	}
}

func TestDSNFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIAL_DSN", "")
	assert.Empty(t, dsnFromEnv())

	t.Setenv("REDIAL_DSN", "postgres://fallback/db")
	assert.Equal(t, "postgres://fallback/db", dsnFromEnv())

	t.Setenv("DATABASE_URL", "postgres://primary/db")
	assert.Equal(t, "postgres://primary/db", dsnFromEnv())
}

func TestRegisterPolicy_FlagFallback(t *testing.T) {
	flags := &pingFlags{
		totalDelay:    10 * time.Second,
		startDelay:    50 * time.Millisecond,
		backoffFactor: 2,
	}

	// Run from a directory without a redial.yaml.
	chdir(t, t.TempDir())

	reg := redial.NewRegistry()
	require.NoError(t, registerPolicy(reg, flags))

	cfg, err := reg.Resolve(redial.Target{Driver: db.Driver})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 10*time.Second, cfg.TotalDelay)
	assert.Equal(t, 50*time.Millisecond, cfg.StartDelay)
	assert.Equal(t, 2.0, cfg.BackoffFactor)
	assert.Equal(t, 2500*time.Millisecond, cfg.MaxDelay)
}

func TestRegisterPolicy_FileWins(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redial.yaml"), []byte(`
policies:
  - driver: postgres
    total_delay: 3s
`), 0o644))
	chdir(t, dir)

	flags := &pingFlags{totalDelay: time.Minute, startDelay: time.Second, backoffFactor: 3}
	reg := redial.NewRegistry()
	require.NoError(t, registerPolicy(reg, flags))

	cfg, err := reg.Resolve(redial.Target{Driver: db.Driver})
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, 3*time.Second, cfg.TotalDelay, "the policy file takes precedence over flags")
}

func TestRegisterPolicy_MissingExplicitFileFails(t *testing.T) {
	flags := &pingFlags{policyFile: filepath.Join(t.TempDir(), "absent.yaml")}

	err := registerPolicy(redial.NewRegistry(), flags)
	require.Error(t, err)
	assert.ErrorIs(t, err, redial.ErrInvalidConfig)
}

func TestRegisterPolicy_BadFlagValuesFail(t *testing.T) {
	flags := &pingFlags{totalDelay: time.Second, startDelay: time.Second, backoffFactor: 1}
	chdir(t, t.TempDir())

	err := registerPolicy(redial.NewRegistry(), flags)
	require.Error(t, err)
	assert.ErrorIs(t, err, redial.ErrInvalidConfig)
}

func TestNewLogger_Selection(t *testing.T) {
	l, err := newLogger(&pingFlags{quiet: true, logFormat: logFormatConsole}, 0)
	require.NoError(t, err)
	assert.IsType(t, &logging.NullLogger{}, l, "--quiet wins over any format")

	l, err = newLogger(&pingFlags{logFormat: logFormatConsole}, 0)
	require.NoError(t, err)
	assert.IsType(t, &logging.ConsoleLogger{}, l)

	l, err = newLogger(&pingFlags{logFormat: logFormatTint}, 3)
	require.NoError(t, err)
	assert.IsType(t, &logging.SlogLogger{}, l)

	_, err = newLogger(&pingFlags{logFormat: "json"}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

// memoryLogger records Info lines for assertions.
type memoryLogger struct {
	infos []string
}

func (l *memoryLogger) Verbose(format string, args ...interface{}) {}

func (l *memoryLogger) Info(format string, args ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *memoryLogger) Error(format string, args ...interface{}) {}

func TestNoticeMissingPolicy(t *testing.T) {
	// A policy file covering only another driver leaves postgres dials
	// without retry; the operator gets told.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redial.yaml"), []byte(`
policies:
  - driver: mysql
    total_delay: 5s
`), 0o644))
	chdir(t, dir)

	reg := redial.NewRegistry()
	require.NoError(t, registerPolicy(reg, &pingFlags{}))

	logger := &memoryLogger{}
	noticeMissingPolicy(reg, logger)
	require.Len(t, logger.infos, 1)
	assert.Contains(t, logger.infos[0], "no retry policy registered")
}

func TestNoticeMissingPolicy_SilentWhenCovered(t *testing.T) {
	// The flag fallback always installs a postgres provider.
	chdir(t, t.TempDir())

	reg := redial.NewRegistry()
	flags := &pingFlags{totalDelay: time.Second, startDelay: time.Millisecond, backoffFactor: 2}
	require.NoError(t, registerPolicy(reg, flags))

	logger := &memoryLogger{}
	noticeMissingPolicy(reg, logger)
	assert.Empty(t, logger.infos)
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
