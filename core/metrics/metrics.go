// Package metrics holds the Prometheus collectors shared by the sync
// pipeline and the push service. The push server exposes them on /metrics;
// one-shot sync runs still increment them so a scrape during a long run sees
// progress.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_pages_fetched_total",
		Help: "Total number of source pages fetched, including empty ones",
	})

	RecordsInserted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_records_inserted_total",
		Help: "Total number of source records processed successfully",
	})

	RecordFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_record_failures_total",
		Help: "Total number of records skipped due to resolve/insert errors",
	})

	TransportRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_transport_retries_total",
		Help: "Total number of transport-level fetch retries (timeout / 408)",
	})

	ThrottleRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_throttle_retries_total",
		Help: "Total number of soft-throttle fetch retries",
	})

	PushesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cuttingsync_pushes_sent_total",
		Help: "Total number of push notifications handed to the delivery endpoint",
	})
)
