package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"digital.vasic.probe/internal/demo"
	"digital.vasic.probe/pkg/config"
	"digital.vasic.probe/pkg/env"
	"digital.vasic.probe/pkg/logging"
	"digital.vasic.probe/pkg/metrics"
	"digital.vasic.probe/pkg/monitor"
	"digital.vasic.probe/pkg/session"
)

// ErrTestsFailed is returned in strict mode when a test failed.
var ErrTestsFailed = errors.New("tests failed")

type runOptions struct {
	configPath string
	suite      string
	format     string
	noColor    bool
	monitor    string
	linger     time.Duration
	strict     bool
	logFile    string
	envFiles   []string
}

func (o *runOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&o.suite, "suite", "", "suite name (default from config or \""+demo.Suite+"\")")
	f.StringVar(&o.format, "format", "", "report format: text or json")
	f.BoolVar(&o.noColor, "no-color", false, "disable colored output")
	f.StringVar(&o.monitor, "monitor", "", "serve live events on this address, e.g. :8088")
	f.DurationVar(&o.linger, "linger", 0, "keep the monitor serving this long after the run")
	f.BoolVar(&o.strict, "strict", false, "exit with status 1 if any test failed")
	f.StringVar(&o.logFile, "log-file", "", "also write JSON logs to this file")
	f.StringSliceVar(&o.envFiles, "env-file", nil, "read PROBE_* overrides from KEY=VALUE files")
}

// environment returns the lookup for PROBE_* overrides: the
// process environment over any --env-file contents.
func (o *runOptions) environment() (func(string) (string, bool), error) {
	if len(o.envFiles) == 0 {
		return os.LookupEnv, nil
	}
	loader := env.NewLoader()
	for _, path := range o.envFiles {
		if err := loader.Load(path); err != nil {
			return nil, err
		}
	}
	return loader.Lookup, nil
}

// resolveConfig layers file, environment and flags.
func (o *runOptions) resolveConfig(lookup func(string) (string, bool)) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	if o.suite != "" {
		cfg.Suite = o.suite
	}
	if cfg.Suite == "" {
		cfg.Suite = demo.Suite
	}
	if o.format != "" {
		cfg.Format = o.format
	}
	if o.noColor {
		cfg.Color = config.ColorNever
	}
	if o.monitor != "" {
		cfg.MonitorAddr = o.monitor
	}

	if err := cfg.Validate(nil); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (o *runOptions) logger(cmd *cobra.Command, cfg *config.Config) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	console := logging.NewConsoleLogger(cmd.ErrOrStderr(), level)
	if cfg.Color == config.ColorNever {
		console = console.NoColor()
	}
	if o.logFile == "" {
		return console, nil
	}

	file, err := logging.OpenJSONLogger(o.logFile, level)
	if err != nil {
		return nil, err
	}
	return logging.NewMultiLogger(console, file), nil
}

func runSuite(cmd *cobra.Command, o *runOptions) error {
	lookup, err := o.environment()
	if err != nil {
		return err
	}

	cfg, err := o.resolveConfig(lookup)
	if err != nil {
		return err
	}

	logger, err := o.logger(cmd, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	recorder := metrics.NewInMemory()
	sessOpts := []session.Option{
		session.WithConfig(cfg),
		session.WithLogger(logger),
		session.WithMetrics(recorder),
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.MonitorAddr != "" {
		collector := monitor.NewCollector()
		server := monitor.NewServer(cfg.MonitorAddr, collector, monitor.NewDashboard())
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Error("monitor stopped", logging.ErrorField(err))
			}
		}()
		logger.Info("monitor listening", logging.StringField("addr", cfg.MonitorAddr))
		sessOpts = append(sessOpts, session.WithEvents(collector))
	}

	s, err := session.Open(cmd.OutOrStdout(), cfg.Suite, sessOpts...)
	if err != nil {
		return err
	}

	failed := demo.Run(s)

	if err := s.Close(); err != nil {
		return err
	}

	for _, st := range recorder.Sessions() {
		logger.Debug("session metrics",
			logging.StringField("suite", st.Suite),
			logging.IntField("cases", recorder.CaseCount(st.Suite)),
			logging.IntField("passed", st.Passed),
			logging.IntField("total", st.Total),
		)
	}

	if cfg.MonitorAddr != "" && o.linger > 0 {
		logger.Info("monitor lingering", logging.DurationField("for", o.linger))
		select {
		case <-time.After(o.linger):
		case <-ctx.Done():
		}
	}

	if o.strict && failed > 0 {
		return fmt.Errorf("%w: %d", ErrTestsFailed, failed)
	}
	return nil
}
