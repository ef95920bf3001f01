package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_inspector_scan_runs_total",
			Help: "Total number of directory analysis runs",
		},
	)

	ScanFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_scan_files_total",
			Help: "Total number of files dispatched to decoders",
		},
		[]string{"category"},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_inspector_scan_duration_seconds",
			Help:    "Duration of full analysis runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)

	ScanCancellations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gallery_inspector_scan_cancellations_total",
			Help: "Number of analysis runs terminated by cancellation",
		},
	)

	ScanWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gallery_inspector_scan_workers",
			Help: "Number of decode workers in the current run",
		},
	)
)

// Decoder metrics
var (
	DecodeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_decode_failures_total",
			Help: "Total number of files whose metadata could not be decoded",
		},
		[]string{"category"},
	)

	DecodeStrategyHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_decode_strategy_hits_total",
			Help: "Successful metadata reads per named decode strategy",
		},
		[]string{"strategy"},
	)
)

// Reorganization metrics
var (
	OrganizeFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_organize_files_total",
			Help: "Files processed by the reorganization engine",
		},
		[]string{"status"}, // "copied", "skipped", "error"
	)

	OrganizeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gallery_inspector_organize_duration_seconds",
			Help:    "Duration of reorganization runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		},
	)
)

// Filesystem metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_fs_retry_attempts_total",
			Help: "Filesystem operations retried after a stale NFS handle",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_inspector_fs_retry_failures_total",
			Help: "Filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)
)
