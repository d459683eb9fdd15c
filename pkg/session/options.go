package session

import (
	"digital.vasic.probe/pkg/comparator"
	"digital.vasic.probe/pkg/config"
	"digital.vasic.probe/pkg/logging"
	"digital.vasic.probe/pkg/metrics"
	"digital.vasic.probe/pkg/report"
)

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the session configuration. The config decides
// the reporter and the default comparator unless overridden.
func WithConfig(cfg *config.Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r metrics.Recorder) Option {
	return func(s *Session) {
		s.metrics = r
	}
}

// WithEvents sets the sink receiving session events, usually a
// *monitor.Collector.
func WithEvents(sink EventSink) Option {
	return func(s *Session) {
		s.events = sink
	}
}

// WithReporter replaces the reporter built from the config.
func WithReporter(r report.Reporter) Option {
	return func(s *Session) {
		s.reporter = r
	}
}

// WithRegistry sets the registry the config's comparator name is
// resolved against.
func WithRegistry(reg *comparator.Registry) Option {
	return func(s *Session) {
		s.registry = reg
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}
