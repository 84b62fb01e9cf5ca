package digest

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"market-sentiment/internal/auditlog"
	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
)

// Schedule runs the daily digest and journal compression on expr, a
// standard five-field cron expression evaluated in IST. The caller starts
// and stops the returned scheduler.
func Schedule(expr string, builder interfaces.DigestBuilder, journal *auditlog.Journal, retentionDays int) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(auditlog.IST))
	_, err := c.AddFunc(expr, func() {
		RunDaily(context.Background(), builder, journal, retentionDays)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", expr, err)
	}
	return c, nil
}

// RunDaily builds today's digest and compresses old journals. Failures are
// logged; the next run retries.
func RunDaily(ctx context.Context, builder interfaces.DigestBuilder, journal *auditlog.Journal, retentionDays int) {
	if _, err := builder.SummarizeToday(); err != nil {
		logger.ErrorWithErr(ctx, "Daily digest failed", err)
	}
	if err := journal.CompressOlder(retentionDays); err != nil {
		logger.ErrorWithErr(ctx, "Journal compression failed", err, "retention_days", retentionDays)
	}
}
