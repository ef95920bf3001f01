// Package workers determines worker pool sizes for the concurrent stages
// of the pipeline.
//
// Go 1.19+ sets GOMAXPROCS from container CPU limits, so GOMAXPROCS(0) is
// used as the source of truth rather than runtime.NumCPU(), which reports
// the host machine's CPU count even under cgroup constraints.
//
// Metadata decoding mixes filesystem reads with parsing work, so the scan
// dispatcher uses ForMixed. The SCAN_WORKERS environment variable overrides
// the computed count for all helpers.
package workers
