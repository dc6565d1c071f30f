package observability

import (
	"context"
	"log/slog"
	"time"
)

// Timer measures one operation and reports it to metrics and logs.
type Timer struct {
	name    string
	start   time.Time
	metrics Metrics
	logger  *slog.Logger
	tags    []Tag
}

// StartTimer begins timing name. A nil metrics or logger is allowed.
func StartTimer(name string, metrics Metrics, logger *slog.Logger, tags ...Tag) *Timer {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Timer{name: name, start: time.Now(), metrics: metrics, logger: logger, tags: tags}
}

// Stop records the elapsed time with a success status.
func (t *Timer) Stop(ctx context.Context) time.Duration {
	return t.StopWithError(ctx, nil)
}

// StopWithError records the elapsed time and, when err is set, an error
// counter.
func (t *Timer) StopWithError(ctx context.Context, err error) time.Duration {
	d := time.Since(t.start)
	status := "success"
	if err != nil {
		status = "error"
	}
	tags := append([]Tag{T("operation", t.name), T("status", status)}, t.tags...)

	t.metrics.Timing(MetricOperationDuration, d, tags...)
	t.metrics.Counter(MetricOperationTotal, 1, tags...)
	if err != nil {
		t.metrics.Counter(MetricOperationErrors, 1, T("operation", t.name))
	}

	if t.logger != nil {
		if err != nil {
			t.logger.WarnContext(ctx, "operation failed", "operation", t.name, "duration", d, "error", err)
		} else {
			t.logger.DebugContext(ctx, "operation completed", "operation", t.name, "duration", d)
		}
	}
	return d
}

// TimeOperation runs fn under a Timer.
func TimeOperation(ctx context.Context, name string, metrics Metrics, logger *slog.Logger, fn func(context.Context) error) error {
	timer := StartTimer(name, metrics, logger)
	err := fn(ctx)
	timer.StopWithError(ctx, err)
	return err
}
