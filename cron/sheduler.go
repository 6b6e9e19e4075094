package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/NguyenNhatCP/cuttingsync/config"
	"github.com/NguyenNhatCP/cuttingsync/cron/jobs"
)

var jobFuncs = map[string]func(...string){
	"datasync":       jobs.DataSyncJob,
	"sentimentcheck": jobs.SentimentJob,
}

// Jobs exposes the job functions by name, for running a single job from the
// CLI.
func Jobs() map[string]func(...string) {
	return jobFuncs
}

func StartCron() *cron.Cron {
	c := cron.New()
	for name, run := range jobFuncs {
		schedule, ok := config.CronSchedules[name]
		if !ok {
			log.Fatalf("No schedule configured for job %s", name)
		}
		run := run
		if _, err := c.AddFunc(schedule, func() { run() }); err != nil {
			log.Fatalf("Failed to register job %s: %v", name, err)
		}
	}
	c.Start()
	return c
}
