package config

import "os"

// CronSchedules maps job names to their cron expressions. Overridable via
// environment for staging runs.
var CronSchedules = map[string]string{
	"datasync":       scheduleFromEnv("SYNC_CRON", "0 6 * * *"),
	"sentimentcheck": scheduleFromEnv("CHECK_INTERVAL_CRON", "0 8 * * *"),
}

func scheduleFromEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
