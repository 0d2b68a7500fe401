package xloffer

import (
	"time"

	"go.uber.org/zap"
)

// DefaultDateFormat is applied to date cells whose style has no date format.
const DefaultDateFormat = "dd/mm/yyyy"

// Options holds configuration for the Transformer.
type Options struct {
	logger     *zap.Logger
	dateFormat string
	now        func() time.Time
}

func defaultOptions() *Options {
	return &Options{
		logger:     zap.NewNop(),
		dateFormat: DefaultDateFormat,
		now:        time.Now,
	}
}

// Option configures the Transformer.
type Option func(*Options)

// WithLogger sets the logger used for rule tracing (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDateFormat sets the number format given to rewritten date cells that
// had none (default: "dd/mm/yyyy").
func WithDateFormat(format string) Option {
	return func(o *Options) {
		if format != "" {
			o.dateFormat = format
		}
	}
}

// WithClock sets the source of "today" for requests without a reference date.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		if now != nil {
			o.now = now
		}
	}
}
