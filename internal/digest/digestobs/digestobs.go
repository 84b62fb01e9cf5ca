package digestobs

import (
	"context"
	"time"

	"market-sentiment/internal/interfaces"
	"market-sentiment/internal/logger"
)

type observableDigest struct {
	builder interfaces.DigestBuilder
}

var _ interfaces.DigestBuilder = (*observableDigest)(nil)

func Wrap(builder interfaces.DigestBuilder) interfaces.DigestBuilder {
	return &observableDigest{builder: builder}
}

func (od *observableDigest) SummarizeDay(t time.Time) (string, error) {
	date := t.Format("2006-01-02")
	op := logger.StartOperation(context.Background(), "digest.SummarizeDay", "date", date)
	ctx := op.GetContext()

	csvPath, err := od.builder.SummarizeDay(t)
	if err != nil {
		op.EndWithError(err)
		return "", err
	}
	op.End("csv_path", csvPath)

	if csvPath == "" {
		logger.Info(ctx, "No journal entries for daily digest", "date", date)
		return "", nil
	}
	logger.Info(ctx, "Daily digest written", "date", date, "csv_path", csvPath)
	return csvPath, nil
}

func (od *observableDigest) SummarizeToday() (string, error) {
	op := logger.StartOperation(context.Background(), "digest.SummarizeToday")
	ctx := op.GetContext()

	csvPath, err := od.builder.SummarizeToday()
	if err != nil {
		op.EndWithError(err)
		return "", err
	}
	op.End("csv_path", csvPath)

	if csvPath == "" {
		logger.Info(ctx, "No journal entries for today's digest")
		return "", nil
	}
	logger.Info(ctx, "Today's digest written", "csv_path", csvPath)
	return csvPath, nil
}
