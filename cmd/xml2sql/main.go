// Command xml2sql runs stage 2 of the extraction: it reads the filtered XML
// files and generates one SQL load script per table, each wrapped in a
// transaction and batched into bounded multi-row INSERT statements.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"soetl/internal/config"
	"soetl/internal/metrics"
	"soetl/internal/metrics/prompush"
	"soetl/internal/sqlgen"
)

func main() {
	var (
		cfgPath        string
		batchSize      int
		metricsBackend string
		pushgatewayURL string
	)
	flag.StringVar(&cfgPath, "config", "configs/job.json", "job config JSON path")
	flag.IntVar(&batchSize, "batch-size", 0, "rows per INSERT statement (overrides config)")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend (pushgateway, none)")
	flag.StringVar(&pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	hasError := false
	for _, iss := range config.Validate(cfg) {
		// Storage settings are not needed for SQL generation.
		if iss.Path == "storage.dsn" || iss.Path == "input_dir" {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		os.Exit(1)
	}
	if cfg.SQLDir == "" {
		fatalf("sql_dir must be set for SQL generation")
	}
	if batchSize <= 0 {
		batchSize = cfg.BatchSize
	}

	setupMetrics(metricsBackend, pushgatewayURL, cfg.Job)
	defer flushMetrics()

	start := time.Now()
	results, err := sqlgen.GenerateAll(cfg.FilteredDir, cfg.SQLDir, batchSize, cfg.Job)
	if err != nil {
		log.Fatalf("%v", err)
	}

	var rows, stmts int
	for _, r := range results {
		rows += r.Rows
		stmts += r.Statements
	}
	log.Printf("xml2sql: completed in %s: %d scripts, %d rows, %d statements",
		time.Since(start).Truncate(time.Millisecond), len(results), rows, stmts)
}

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
		metrics.SetBackend(b)
	case "", "none":
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backend)
	}
}

func flushMetrics() {
	if err := metrics.Flush(); err != nil {
		log.Printf("metrics: flush: %v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
