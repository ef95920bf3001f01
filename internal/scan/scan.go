package scan

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gallery-inspector/internal/control"
	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/filesystem"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/mediatypes"
	"gallery-inspector/internal/metrics"
	"gallery-inspector/internal/workers"
)

// RecordSet groups the decoded records of one scan by category. The order
// within each slice reflects decode completion, not directory order.
type RecordSet struct {
	Images []*decode.Record
	Videos []*decode.Record
	Others []*decode.Record
}

// Len returns the total number of records across all categories.
func (s *RecordSet) Len() int {
	return len(s.Images) + len(s.Videos) + len(s.Others)
}

func (s *RecordSet) add(rec *decode.Record) {
	switch rec.Category {
	case mediatypes.CategoryImage:
		s.Images = append(s.Images, rec)
	case mediatypes.CategoryVideo:
		s.Videos = append(s.Videos, rec)
	default:
		s.Others = append(s.Others, rec)
	}
}

// Options configures a scan run.
type Options struct {
	// Workers bounds the decode pool. Zero means a mixed-workload default.
	Workers int
}

// Run enumerates every file under the given roots and decodes them
// concurrently. Cancellation through tok abandons outstanding work and
// returns an empty set; files that cannot be read are logged and excluded,
// they never fail the run.
func Run(roots []string, opts Options, tok *control.Token, sink control.Sink) (*RecordSet, error) {
	start := time.Now()
	metrics.ScanRunsTotal.Inc()

	workerCount := opts.Workers
	if workerCount <= 0 {
		workerCount = workers.ForMixed(0)
	}

	var paths []string
	for _, root := range roots {
		rootPaths, err := Enumerate(root, tok)
		if err != nil {
			return nil, err
		}
		paths = append(paths, rootPaths...)
	}
	if tok.Canceled() {
		metrics.ScanCancellations.Inc()
		return &RecordSet{}, nil
	}

	logging.Info("scanning %d files under %v with %d workers", len(paths), roots, workerCount)
	metrics.ScanWorkers.Set(float64(workerCount))
	defer metrics.ScanWorkers.Set(0)

	reporter := control.NewReporter(len(paths), sink)

	jobs := make(chan string)
	results := make(chan *decode.Record)

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				// Per-task poll: pause blocks here, cancel drains the
				// remaining jobs without decoding them.
				if !tok.Step() {
					reporter.Complete()
					results <- nil
					continue
				}
				category, rec := decode.File(path)
				reporter.Complete()
				metrics.ScanFilesTotal.WithLabelValues(string(category)).Inc()
				results <- rec
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range paths {
			if !tok.Step() {
				return
			}
			jobs <- path
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	set := &RecordSet{}
	for rec := range results {
		if rec != nil {
			set.add(rec)
		}
	}

	if tok.Canceled() {
		metrics.ScanCancellations.Inc()
		return &RecordSet{}, nil
	}

	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	logging.Info("scan finished: %d images, %d videos, %d others in %v",
		len(set.Images), len(set.Videos), len(set.Others), time.Since(start).Round(time.Millisecond))
	return set, nil
}

// Enumerate lists every file under root, visiting subdirectories before
// the files of their parent. The ordering is an enumeration detail, not a
// contract; decode completion order is what callers observe.
func Enumerate(root string, tok *control.Token) ([]string, error) {
	info, err := filesystem.StatWithRetry(root, filesystem.DefaultRetryConfig())
	if err != nil {
		return nil, fmt.Errorf("scan root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	var paths []string
	var walk func(dir string)
	walk = func(dir string) {
		if !tok.Step() {
			return
		}

		entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
		if err != nil {
			logging.Warn("cannot read directory %s: %v", dir, err)
			return
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		var files []string
		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			if entry.IsDir() {
				walk(full)
				continue
			}
			files = append(files, full)
		}
		paths = append(paths, files...)
	}

	walk(root)
	return paths, nil
}
