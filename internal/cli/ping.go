package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/redial/internal/db"
	"github.com/vvka-141/redial/internal/logging"
	"github.com/vvka-141/redial/internal/policy"
	"github.com/vvka-141/redial/pkg/redial"
)

// Log output formats accepted by --log-format.
const (
	logFormatConsole = "console"
	logFormatTint    = "tint"
)

type pingFlags struct {
	dsn           string
	policyFile    string
	totalDelay    time.Duration
	startDelay    time.Duration
	backoffFactor float64
	maxDelay      time.Duration
	transientOnly bool
	logFormat     string
	quiet         bool
}

func init() {
	flags := &pingFlags{}

	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Dial PostgreSQL with retry and report the outcome",
		Long: `Dial the database given by --dsn (or DATABASE_URL / REDIAL_DSN) through
the retry wrapper and exit once connected or once the budget is spent.

Policy comes from a redial.yaml file when present (see --policy), otherwise
from the delay flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPing(cmd, flags)
		},
	}

	pingCmd.Flags().StringVar(&flags.dsn, "dsn", "", "Connection string (defaults to DATABASE_URL or REDIAL_DSN)")
	pingCmd.Flags().StringVar(&flags.policyFile, "policy", "", "Path to a retry policy file (default ./"+policy.DefaultFileName+" when present)")
	pingCmd.Flags().DurationVar(&flags.totalDelay, "total-delay", redial.DefaultTotalDelay, "Total time budget to spend retrying")
	pingCmd.Flags().DurationVar(&flags.startDelay, "start-delay", redial.DefaultStartDelay, "Delay before the first retry")
	pingCmd.Flags().Float64Var(&flags.backoffFactor, "backoff-factor", redial.DefaultBackoffFactor, "Multiplier applied to the delay after each attempt")
	pingCmd.Flags().DurationVar(&flags.maxDelay, "max-delay", 0, "Cap on any single delay (default total-delay/4)")
	pingCmd.Flags().BoolVar(&flags.transientOnly, "transient-only", false, "Give up immediately on non-transient errors")
	pingCmd.Flags().StringVar(&flags.logFormat, "log-format", logFormatConsole, "Log output format: console or tint (colorized slog)")
	pingCmd.Flags().BoolVar(&flags.quiet, "quiet", false, "Suppress all output; rely on the exit code")

	rootCmd.AddCommand(pingCmd)
}

// dsnFromEnv returns the first non-empty connection string from
// DATABASE_URL or REDIAL_DSN environment variables.
func dsnFromEnv() string {
	if s := os.Getenv("DATABASE_URL"); s != "" {
		return s
	}
	return os.Getenv("REDIAL_DSN")
}

func runPing(cmd *cobra.Command, flags *pingFlags) error {
	dsn := flags.dsn
	if dsn == "" {
		dsn = dsnFromEnv()
	}
	if dsn == "" {
		return fmt.Errorf("no connection string: pass --dsn or set DATABASE_URL")
	}

	verbosity := verbosityFromFlags(cmd, redial.VerbosityFromEnv())
	reg := redial.NewRegistry(redial.WithDefaultVerbosity(verbosity))

	if err := registerPolicy(reg, flags); err != nil {
		return err
	}

	logger, err := newLogger(flags, verbosity)
	if err != nil {
		return err
	}
	noticeMissingPolicy(reg, logger)

	opts := []redial.Option{redial.WithLogger(logger)}
	if flags.transientOnly {
		opts = append(opts, redial.WithRetryIf(db.IsTransient))
	}

	dial := redial.Wrap(db.PoolDialer(), reg, opts...)
	target := redial.Target{Driver: db.Driver, DSN: dsn}

	start := time.Now()
	pool, err := dial(cmd.Context(), target)
	if err != nil {
		if errors.Is(err, redial.ErrInvalidConfig) {
			return err
		}
		logger.Error("%v", db.ExplainConnectionError(err, target))
		return fmt.Errorf("%w: %s", redial.ErrConnectionFailed, target)
	}
	defer pool.Close()

	logger.Info("connected to %s in %v", target, time.Since(start).Round(time.Millisecond))
	return nil
}

// registerPolicy installs providers from the policy file when one is
// available, falling back to a single provider built from the flags.
func registerPolicy(reg *redial.Registry, flags *pingFlags) error {
	path := flags.policyFile
	explicit := path != ""
	if !explicit {
		path = policy.DefaultFileName
	}

	f, err := policy.Load(path)
	switch {
	case err == nil:
		return f.Apply(reg)
	case explicit || !errors.Is(err, policy.ErrPolicyNotFound):
		return fmt.Errorf("%w: %v", redial.ErrInvalidConfig, err)
	}

	cfg := flagConfig(flags)
	if err := cfg.Normalize().Validate(); err != nil {
		return err
	}
	reg.Register(db.Driver, func(redial.Target) *redial.Config {
		c := cfg
		return &c
	})
	return nil
}

// newLogger picks the log sink for a ping run: silent with --quiet, a
// tinted slog handler with --log-format=tint, plain console otherwise.
// The tint handler only passes debug records through when the verbosity
// level enables retry diagnostics at all.
func newLogger(flags *pingFlags, verbosity int) (redial.Logger, error) {
	if flags.quiet {
		return logging.NewNullLogger(), nil
	}
	switch flags.logFormat {
	case logFormatConsole:
		return logging.NewConsoleLogger(), nil
	case logFormatTint:
		level := slog.LevelInfo
		if verbosity >= 2 {
			level = slog.LevelDebug
		}
		return logging.NewTintedLogger(os.Stderr, level), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: want %s or %s", flags.logFormat, logFormatConsole, logFormatTint)
	}
}

// noticeMissingPolicy tells the operator when no provider chain covers the
// postgres driver, since every dial failure then returns without a retry.
func noticeMissingPolicy(reg *redial.Registry, logger redial.Logger) {
	if !reg.Registered(db.Driver) {
		logger.Info("no retry policy registered for %s targets; dial failures return immediately", db.Driver)
	}
}

func flagConfig(flags *pingFlags) redial.Config {
	return redial.Config{
		TotalDelay:    flags.totalDelay,
		StartDelay:    flags.startDelay,
		BackoffFactor: flags.backoffFactor,
		MaxDelay:      flags.maxDelay,
	}
}
