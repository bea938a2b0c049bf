package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"soetl/internal/dump"
	"soetl/internal/schema"
)

// fakeRepo records what the loader asked of it.
type fakeRepo struct {
	copies []int // rows per CopyFrom call
	execs  []string
	fail   error
}

func (f *fakeRepo) CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if f.fail != nil {
		return 0, f.fail
	}
	f.copies = append(f.copies, len(rows))
	return int64(len(rows)), nil
}

func (f *fakeRepo) Exec(ctx context.Context, stmt string) error {
	f.execs = append(f.execs, stmt)
	return f.fail
}

func (f *fakeRepo) Close() error { return nil }

func TestRegistry(t *testing.T) {
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})
	repo, err := New(context.Background(), Config{Kind: "fake", DSN: "x"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	repo.Close()

	if _, err := New(context.Background(), Config{Kind: "nope"}); err == nil {
		t.Fatal("New should fail for an unregistered kind")
	}
}

func TestEnsureTable(t *testing.T) {
	repo := &fakeRepo{}
	tbl, _ := schema.Lookup("posttags")
	if err := EnsureTable(context.Background(), repo, tbl); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(repo.execs) != 1 || !strings.Contains(repo.execs[0], "CREATE TABLE IF NOT EXISTS posttags") {
		t.Fatalf("execs = %v", repo.execs)
	}
}

func feed(rows int) <-chan []any {
	ch := make(chan []any, rows)
	for i := 0; i < rows; i++ {
		ch <- []any{int64(i)}
	}
	close(ch)
	return ch
}

func TestLoadBatches(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		batchSize int
		want      []int // rows per copy call
	}{
		{"empty input", 0, 10, nil},
		{"single partial batch", 3, 10, []int{3}},
		{"exact multiple", 20, 10, []int{10, 10}},
		{"remainder flushed", 25, 10, []int{10, 10, 5}},
	}
	for _, tc := range tests {
		repo := &fakeRepo{}
		total, err := LoadBatches(context.Background(), "t", []string{"id"}, feed(tc.rows), tc.batchSize,
			func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
				return repo.CopyFrom(ctx, "t", cols, rows)
			})
		if err != nil {
			t.Fatalf("%s: LoadBatches: %v", tc.name, err)
		}
		if total != int64(tc.rows) {
			t.Fatalf("%s: total = %d, want %d", tc.name, total, tc.rows)
		}
		if len(repo.copies) != len(tc.want) {
			t.Fatalf("%s: copies = %v, want %v", tc.name, repo.copies, tc.want)
		}
		for i := range tc.want {
			if repo.copies[i] != tc.want[i] {
				t.Fatalf("%s: copies = %v, want %v", tc.name, repo.copies, tc.want)
			}
		}
	}
}

func TestLoadBatches_CopyError(t *testing.T) {
	boom := errors.New("boom")
	repo := &fakeRepo{fail: boom}
	_, err := LoadBatches(context.Background(), "t", []string{"id"}, feed(5), 2,
		func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, "t", cols, rows)
		})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestLoadBatches_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := make(chan []any) // never closed; cancellation must win
	repo := &fakeRepo{}
	_, err := LoadBatches(ctx, "t", []string{"id"}, in, 2,
		func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, "t", cols, rows)
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestLoadBatches_BadArguments(t *testing.T) {
	repo := &fakeRepo{}
	if _, err := LoadBatches(context.Background(), "t", nil, feed(0), 0,
		func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, "t", cols, rows)
		}); err == nil {
		t.Fatal("batchSize 0 should fail")
	}
	if _, err := LoadBatches(context.Background(), "t", nil, feed(0), 10, nil); err == nil {
		t.Fatal("nil copyFn should fail")
	}
}

func TestRowValues(t *testing.T) {
	tbl := schema.Table{
		Name: "votes",
		Columns: []schema.Column{
			{Name: "Id", Type: schema.Int},
			{Name: "CreationDate", Type: schema.Date},
			{Name: "BountyAmount", Type: schema.Int},
			{Name: "TagBased", Type: schema.Bool},
		},
	}
	row := dump.NewRow()
	row.Set("Id", "17")
	row.Set("CreationDate", "2020-06-01")
	row.Set("TagBased", "True")
	// BountyAmount absent.

	vals, err := RowValues(row, tbl)
	if err != nil {
		t.Fatalf("RowValues: %v", err)
	}
	want := []any{int64(17), "2020-06-01", nil, true}
	if fmt.Sprint(vals) != fmt.Sprint(want) {
		t.Fatalf("vals = %v, want %v", vals, want)
	}
}

func TestRowValues_BadInteger(t *testing.T) {
	tbl := schema.Table{
		Name:    "t",
		Columns: []schema.Column{{Name: "Id", Type: schema.Int}},
	}
	row := dump.NewRow()
	row.Set("Id", "not-a-number")
	if _, err := RowValues(row, tbl); err == nil {
		t.Fatal("RowValues should reject a non-integer value in an integer column")
	}
}
