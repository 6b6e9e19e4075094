// Package jobs holds the bodies of the recurring jobs. Each job builds its
// own dependencies so a failed run never poisons the scheduler.
package jobs

import (
	"context"

	"github.com/NguyenNhatCP/cuttingsync/config"
	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	pushService "github.com/NguyenNhatCP/cuttingsync/service/push"
	"github.com/NguyenNhatCP/cuttingsync/service/sentiment"
	syncService "github.com/NguyenNhatCP/cuttingsync/service/sync"
)

// DataSyncJob runs one full cutting-plan sync for today's date.
func DataSyncJob(args ...string) {
	logger := logging.NewLogger("cron.datasync")
	cfg := config.AppConfig

	audit, err := auditlog.New(cfg.ErrorLogPath, cfg.SuccessLogPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open audit logs")
		return
	}
	defer audit.Close()

	db, err := config.NewDB()
	if err != nil {
		audit.Error("Database connection failed: %v", err)
		logger.Error().Err(err).Msg("database connection failed")
		return
	}

	source := syncService.NewSourceClient(cfg.SourceBaseURL, cfg.ThrottlePhrase, audit)
	runner := syncService.NewRunner(db, source, syncService.NewBatchInserter(db, audit), audit)
	if err := runner.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("sync run failed")
	}
}

// SentimentJob runs one fear-and-greed check and pushes an alert if a
// threshold is crossed.
func SentimentJob(args ...string) {
	logger := logging.NewLogger("cron.sentiment")
	cfg := config.AppConfig

	store := pushService.NewTokenStore(cfg.TokensFile, config.RedisClient)
	notifier := sentiment.NewNotifier(
		sentiment.NewClient("", cfg.CMCAPIKey),
		store,
		pushService.NewExpoSender(""),
		cfg.GreedAlertAt,
		cfg.FearAlertAt,
	)
	if err := notifier.Check(context.Background()); err != nil {
		logger.Error().Err(err).Msg("sentiment check failed")
	}
}
