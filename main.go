package main

import (
	"context"

	"github.com/locvowork/quota_tracker/internal/bootstrap"
	"github.com/locvowork/quota_tracker/internal/logger"
)

func main() {
	ctx := context.Background()

	app := bootstrap.NewApp()
	if err := app.Initialize(ctx, bootstrap.Options{}); err != nil {
		panic(err)
	}

	summary, err := app.Run(ctx)
	if err != nil {
		logger.ErrorLog(ctx, "Quota sync failed", err)
		panic(err)
	}
	logger.InfoLog(ctx, "Quota sync finished: %d tabs updated, %d markets skipped", len(summary.Markets), len(summary.Skipped))
}
