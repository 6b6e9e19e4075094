package sync

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/NguyenNhatCP/cuttingsync/core/auditlog"
	"github.com/NguyenNhatCP/cuttingsync/core/logging"
	"github.com/NguyenNhatCP/cuttingsync/core/metrics"
)

const (
	chunkSize        = 100
	chunkPause       = 200 * time.Millisecond
	emptyPageRetries = 3
	emptyPageDelay   = time.Second

	dateLayout = "2006-01-02"
)

// Runner owns one sync run end to end: resolve the page count for today,
// fetch pages in ascending order, insert each page in chunks, and release the
// destination connection on every exit path.
type Runner struct {
	db       *gorm.DB
	source   *SourceClient
	inserter *BatchInserter
	audit    *auditlog.Logger
	log      zerolog.Logger
	sleep    func(time.Duration)
	now      func() time.Time
}

func NewRunner(db *gorm.DB, source *SourceClient, inserter *BatchInserter, audit *auditlog.Logger) *Runner {
	return &Runner{
		db:       db,
		source:   source,
		inserter: inserter,
		audit:    audit,
		log:      logging.NewLogger("sync.runner"),
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// Run executes the sync for today's date. It returns an error only for fatal
// conditions (transport retry exhaustion); per-page and per-record failures
// are contained and logged.
func (r *Runner) Run(ctx context.Context) error {
	defer r.closeDB()

	today := r.now().Format(dateLayout)
	total := r.source.TotalPages(ctx, today, today)
	r.log.Info().Str("date", today).Int("total_pages", total).Msg("starting sync run")

	for page := 1; page <= total; page++ {
		records, err := r.fetchPage(ctx, today, page, total)
		if err != nil {
			r.audit.Error("Unexpected error: %v", err)
			r.log.Error().Err(err).Int("page", page).Msg("aborting run")
			return err
		}
		if len(records) == 0 {
			r.audit.Error("No data found on page %d after retries.", page)
			continue
		}

		for i, chunk := range chunkRecords(records, chunkSize) {
			inserted, failed := r.inserter.InsertChunk(chunk)
			first := i*chunkSize + 1
			r.audit.Success("Inserted chunk (page %d, records %d-%d)", page, first, first+len(chunk)-1)
			if failed > 0 {
				r.log.Warn().Int("page", page).Int("inserted", inserted).Int("failed", failed).Msg("chunk finished with failures")
			}
			r.sleep(chunkPause)
		}
	}

	r.audit.Success("Data sync complete.")
	r.log.Info().Msg("data sync complete")
	return nil
}

// fetchPage fetches one page, applying the bounded empty-page retry policy
// for page one: the day's data may legitimately still be empty, so up to
// three attempts separated by a fixed delay before accepting it.
func (r *Runner) fetchPage(ctx context.Context, date string, page, total int) ([]Record, error) {
	for attempt := 1; ; attempt++ {
		r.log.Info().Int("page", page).Int("total", total).Int("attempt", attempt).Msg("fetching page")
		records, err := r.source.FetchPage(ctx, date, date, page)
		if err != nil {
			return nil, err
		}
		metrics.PagesFetched.Inc()
		if len(records) > 0 || page != 1 || attempt >= emptyPageRetries {
			return records, nil
		}
		r.audit.Error("No data on page 1. Retrying (%d/%d)...", attempt, emptyPageRetries)
		r.sleep(emptyPageDelay)
	}
}

func (r *Runner) closeDB() {
	sqlDB, err := r.db.DB()
	if err != nil {
		r.audit.Error("Failed to release database connection: %v", err)
		return
	}
	if err := sqlDB.Close(); err != nil {
		r.audit.Error("Failed to close database connection: %v", err)
	}
}
