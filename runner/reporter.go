package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/ehrlich-b/semigroups/config"
	"github.com/ehrlich-b/semigroups/internal/logger"
)

// Reporter is the sink Runners send periodic progress lines to.
// Implementations must timestamp output, tag it by run ID, and lock
// around writes so concurrent runners don't interleave a line.
type Reporter interface {
	Report(runID, format string, args ...any)
}

// NoopReporter discards everything. It is the library's default sink.
type NoopReporter struct{}

func (NoopReporter) Report(string, string, ...any) {}

// LogReporter writes timestamped, run-ID-tagged lines through the
// shared slog logger, throttled to at most one line per interval per
// run — "reporting can be disabled globally" is handled by passing
// NoopReporter instead of constructing one of these.
type LogReporter struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

// NewLogReporter builds a reporter that emits at most one line every
// interval for a given run ID.
func NewLogReporter(interval time.Duration) *LogReporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &LogReporter{interval: interval, limiters: make(map[string]*rate.Limiter)}
}

func (l *LogReporter) limiterFor(runID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[runID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[runID] = lim
	}
	return lim
}

func (l *LogReporter) Report(runID, format string, args ...any) {
	if !l.limiterFor(runID).Allow() {
		return
	}
	msg := fmt.Sprintf(format, args...)
	logger.Log.Info(msg, "run_id", runID, "at", time.Now().Format(time.RFC3339))
}

// ReporterFor resolves the sink a component's Runner should report to:
// an explicitly supplied sink always wins (a caller handing in its own
// Reporter knows what it wants), otherwise spec §6's `report`/
// `report_every` options pick between a throttled LogReporter and the
// silent default.
func ReporterFor(cfg *config.Config, explicit Reporter) Reporter {
	if explicit != nil {
		return explicit
	}
	if cfg == nil || !cfg.Report {
		return NoopReporter{}
	}
	return NewLogReporter(cfg.ReportEvery)
}

// Sizef formats a count for a human-readable reporter line, e.g. "12,345".
func Sizef(n int) string { return humanize.Comma(int64(n)) }

// Durationf formats a duration for a human-readable reporter line.
func Durationf(d time.Duration) string { return humanize.RelTime(time.Now().Add(-d), time.Now(), "", "") }
