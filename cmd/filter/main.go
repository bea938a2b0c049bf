// Command filter runs stage 1 of the extraction: it reads a Stack Overflow
// dump directory and writes one filtered XML file per table (plus the
// synthesized post-tag relation) containing only the records relevant to the
// configured tag set and date window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"soetl/internal/config"
	"soetl/internal/filter"
	"soetl/internal/metrics"
	"soetl/internal/metrics/prompush"
)

func main() {
	var (
		cfgPath        string
		metricsBackend string
		pushgatewayURL string
		validateOnly   bool
	)
	flag.StringVar(&cfgPath, "config", "configs/job.json", "job config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend (pushgateway, none)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validateOnly, "validate", false, "validate the configuration and exit")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if !reportIssues(cfg) {
		os.Exit(1)
	}
	if validateOnly {
		log.Printf("configuration is valid: %s", cfgPath)
		return
	}

	setupMetrics(metricsBackend, pushgatewayURL, cfg.Job)
	defer flushMetrics()

	start := time.Now()
	res, err := filter.Run(filter.Options{
		InputDir:  cfg.InputDir,
		OutputDir: cfg.FilteredDir,
		Tags:      filter.NewTagSet(cfg.Tags),
		Window:    filter.DateWindow{Start: cfg.StartDate, End: cfg.EndDate},
		Job:       cfg.Job,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	var total int
	for _, n := range res.Written {
		total += n
	}
	log.Printf("filter: completed in %s, %d rows across %d tables",
		time.Since(start).Truncate(time.Millisecond), total, len(res.Written))
	logPeakRSS()
}

// reportIssues prints validation findings and reports whether the config is
// runnable (no error-severity issues).
func reportIssues(cfg config.Config) bool {
	ok := true
	for _, iss := range config.Validate(cfg) {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			ok = false
		}
	}
	return ok
}

// setupMetrics installs the requested metrics backend; the nop backend
// remains when metrics are disabled or initialization fails.
func setupMetrics(backend, gatewayURL, job string) {
	switch backend {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		if job == "" {
			job = "soetl"
		}
		b, err := prompush.NewBackend(job, gatewayURL)
		if err != nil {
			log.Printf("metrics: init pushgateway backend: %v; metrics disabled", err)
			return
		}
		log.Printf("metrics: backend=pushgateway url=%s job=%s", gatewayURL, job)
		metrics.SetBackend(b)
	case "", "none":
		// metrics disabled
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

func flushMetrics() {
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush: %v", err)
	}
}

// logPeakRSS reports the process high-water memory mark. Constant-memory
// streaming is the contract here; this line is how a run shows it held.
func logPeakRSS() {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return
	}
	log.Printf("filter: peak rss %d MiB", ru.Maxrss/1024)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
