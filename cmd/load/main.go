// Command load inserts the filtered XML tables directly into a relational
// database through one of the registered storage backends, bypassing the
// generated SQL scripts.
//
// The declared tables carry no foreign-key constraints, so they are
// independent load units; -workers controls how many load in parallel.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"soetl/internal/config"
	"soetl/internal/dump"
	"soetl/internal/schema"
	"soetl/internal/storage"

	// register all storage backends with the factory.
	_ "soetl/internal/storage/all"
)

func main() {
	var (
		cfgPath      string
		workers      int
		createTables bool
	)
	flag.StringVar(&cfgPath, "config", "configs/job.json", "job config JSON path")
	flag.IntVar(&workers, "workers", 2, "tables loaded in parallel")
	flag.BoolVar(&createTables, "create-tables", true, "create missing tables before loading (disable for mssql)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if cfg.Storage.Kind == "" || cfg.Storage.DSN == "" {
		fatalf("storage.kind and storage.dsn must be set for direct loading")
	}
	if workers <= 0 {
		workers = 1
	}

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer repo.Close()

	// DDL runs sequentially before any load; concurrent CREATEs are a
	// backend-dependent minefield.
	if createTables {
		for _, t := range schema.Tables() {
			if err := storage.EnsureTable(ctx, repo, t); err != nil {
				log.Fatalf("%v", err)
			}
		}
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range schema.Tables() {
		g.Go(func() error {
			n, err := loadTable(gctx, repo, t, cfg.FilteredDir, cfg.BatchSize)
			if err != nil {
				return fmt.Errorf("load %s: %w", t.Name, err)
			}
			if n > 0 {
				log.Printf("load: %s: %d rows", t.Name, n)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("load: completed in %s", time.Since(start).Truncate(time.Millisecond))
}

// loadTable streams one filtered file into the repository in batches. A
// missing file skips the table.
func loadTable(ctx context.Context, repo storage.Repository, t schema.Table, dir string, batchSize int) (int64, error) {
	path := filepath.Join(dir, t.FilteredFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("load: %s not found; skipping table %s", path, t.Name)
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	columns := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		columns[i] = c.SQLName()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rowCh := make(chan []any, 1024)
	readErr := make(chan error, 1)
	go func() {
		defer close(rowCh)
		rd := dump.NewReader(f, path)
		readErr <- rd.ForEach(func(row *dump.Row) error {
			vals, err := storage.RowValues(row, t)
			if err != nil {
				return err
			}
			select {
			case rowCh <- vals:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	total, err := storage.LoadBatches(ctx, t.Name, columns, rowCh, batchSize,
		func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, t.Name, cols, rows)
		})
	if err != nil {
		cancel()
		<-readErr
		return total, err
	}
	if err := <-readErr; err != nil {
		return total, err
	}
	return total, nil
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
