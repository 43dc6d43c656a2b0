package cli

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/pinpayments/internal/domain/port/core"
	"github.com/robfig/cron/v3"
)

// cronLogger adapts core.Logger to cron.Logger
type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.logger.Error("cron: "+msg, fields)
}

func pairs(keysAndValues []any) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}

// runScheduled runs job on schedule until ctx is cancelled. Job failures are
// logged and the schedule carries on.
func runScheduled(ctx context.Context, logger core.Logger, schedule, name string, job func(context.Context) error) error {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger: logger})))

	if _, err := c.AddFunc(schedule, func() {
		if err := job(ctx); err != nil {
			logger.Error("Scheduled run failed", map[string]any{"job": name, "error": err.Error()})
		}
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	logger.Info("Scheduled job", map[string]any{"job": name, "schedule": schedule})
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("Scheduler stopped", map[string]any{"job": name})
	return nil
}
