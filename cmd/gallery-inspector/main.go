package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/schollz/progressbar/v3"
	flag "github.com/spf13/pflag"

	"gallery-inspector/internal/control"
	"gallery-inspector/internal/decode"
	"gallery-inspector/internal/export"
	"gallery-inspector/internal/filter"
	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/organize"
	"gallery-inspector/internal/scan"
	"gallery-inspector/internal/table"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	tok := control.NewToken()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logging.Warn("interrupt received, stopping after in-flight work")
		tok.Cancel()
	}()
	defer decode.CloseExiftool()

	var err error
	switch os.Args[1] {
	case "analyze":
		err = runAnalyze(os.Args[2:], tok)
	case "organize":
		err = runOrganize(os.Args[2:], tok)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logging.Error("%v", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: gallery-inspector <command> [flags] <directory>...

Commands:
  analyze    scan one or more directories and write a metadata spreadsheet
  organize   copy files into a metadata-derived directory tree

Run 'gallery-inspector <command> --help' for command flags.
`)
}

// progressSink renders a terminal progress bar from completion fractions.
// Resolution is 1/1000 of the run.
func progressSink(description string) control.Sink {
	bar := progressbar.NewOptions(1000,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return func(fraction float64) {
		_ = bar.Set(int(fraction * 1000))
	}
}

// serveMetrics exposes the Prometheus endpoint for the duration of the
// process. Errors are logged, never fatal.
func serveMetrics(addr string) {
	if addr == "" {
		return
	}
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler())
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	go func() {
		logging.Info("metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, router); err != nil {
			logging.Warn("metrics server: %v", err)
		}
	}()
}

func runAnalyze(args []string, tok *control.Token) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	output := fs.String("output", "gallery-report.xlsx", "spreadsheet file to write")
	workerCount := fs.Int("workers", 0, "decode workers (0 = automatic)")
	metricsAddr := fs.String("metrics-addr", "", "expose Prometheus metrics on this address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("analyze: expected at least one directory")
	}
	roots := fs.Args()

	serveMetrics(*metricsAddr)

	start := time.Now()
	set, err := scan.Run(roots, scan.Options{Workers: *workerCount}, tok, progressSink("analyzing"))
	if err != nil {
		return err
	}
	if tok.Canceled() {
		logging.Warn("analysis canceled, nothing written")
		return nil
	}

	if err := export.Workbook(*output,
		table.Images(set.Images),
		table.Videos(set.Videos),
		table.Others(set.Others),
	); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}

	logging.Info("analyzed %d files in %v, report written to %s",
		set.Len(), time.Since(start).Round(time.Millisecond), *output)
	return nil
}

func runOrganize(args []string, tok *control.Token) error {
	fs := flag.NewFlagSet("organize", flag.ExitOnError)
	outputDir := fs.String("output-dir", "", "directory to copy files into (required)")
	byMediaType := fs.Bool("by-media-type", true, "separate into Photos/Videos/Other buckets")
	structure := fs.StringSlice("structure", []string{"Year", "Month"}, "ordered folder levels: Year, Month, Model, Lens")
	onExist := fs.String("on-exist", "rename", "conflict policy: rename or skip")
	verbose := fs.Bool("verbose", false, "log every copied file")
	metricsAddr := fs.String("metrics-addr", "", "expose Prometheus metrics on this address")

	cameras := fs.StringSlice("camera", nil, "only include these camera models")
	lenses := fs.StringSlice("lens", nil, "only include these lens models")
	dateFrom := fs.String("date-from", "", "only include files taken on or after this date (YYYY-MM-DD)")
	dateTo := fs.String("date-to", "", "only include files taken on or before this date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("organize: expected exactly one source directory, got %d", fs.NArg())
	}
	if *outputDir == "" {
		return fmt.Errorf("organize: --output-dir is required")
	}
	root := fs.Arg(0)

	policy := organize.ConflictPolicy(*onExist)
	if policy != organize.Rename && policy != organize.Skip {
		return fmt.Errorf("organize: --on-exist must be rename or skip, got %q", *onExist)
	}

	dims, err := parseStructure(*structure)
	if err != nil {
		return err
	}

	criteria, active, err := buildCriteria(*cameras, *lenses, *dateFrom, *dateTo)
	if err != nil {
		return err
	}

	serveMetrics(*metricsAddr)

	paths, err := scan.Enumerate(root, tok)
	if err != nil {
		return err
	}
	logging.Info("found %d files under %s", len(paths), root)

	if active {
		paths = filter.Apply(paths, criteria, tok, progressSink("filtering"))
		logging.Info("%d files match the filter criteria", len(paths))
	}
	if tok.Canceled() {
		logging.Warn("organize canceled before copying")
		return nil
	}

	report, err := organize.Run(paths, *outputDir, organize.Options{
		ByMediaType: *byMediaType,
		Structure:   dims,
		OnExist:     policy,
		Verbose:     *verbose,
	}, tok, progressSink("organizing"))
	if err != nil {
		return err
	}

	fmt.Printf("Total: %d, copied: %d, skipped: %d, errored: %d\n",
		report.Total, report.Copied, report.Skipped, report.Errored)
	return nil
}

func parseStructure(names []string) ([]organize.Dimension, error) {
	valid := map[string]organize.Dimension{
		"year":  organize.DimYear,
		"month": organize.DimMonth,
		"model": organize.DimModel,
		"lens":  organize.DimLens,
	}

	var dims []organize.Dimension
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dim, ok := valid[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("organize: unknown structure dimension %q", name)
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

// buildCriteria assembles the filter criteria from command line flags and
// reports whether any section is active.
func buildCriteria(cameras, lenses []string, dateFrom, dateTo string) (filter.Criteria, bool, error) {
	c := filter.Criteria{Cameras: cameras, Lenses: lenses}
	active := len(cameras) > 0 || len(lenses) > 0

	if dateFrom != "" {
		d, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return c, false, fmt.Errorf("organize: invalid --date-from %q", dateFrom)
		}
		c.DateFrom = &d
		active = true
	}
	if dateTo != "" {
		d, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return c, false, fmt.Errorf("organize: invalid --date-to %q", dateTo)
		}
		c.DateTo = &d
		active = true
	}
	return c, active, nil
}
