package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"soetl/internal/dump"
	"soetl/internal/idset"
	"soetl/internal/metrics"
	"soetl/internal/schema"
)

// ErrMissingSource marks a dump file that is absent from the input
// directory. The table is skipped with a warning rather than failing the
// run: dumps legitimately omit empty tables.
var ErrMissingSource = errors.New("filter: source file missing")

// Options configures a stage-1 run.
type Options struct {
	InputDir  string
	OutputDir string
	Tags      TagSet
	Window    DateWindow

	// Job labels metrics emitted during the run.
	Job string
}

// Result reports rows written per output table.
type Result struct {
	Written map[string]int
}

// run carries the identifier sets accumulated across tables. The order of
// the steps in Run is load-bearing: a set is always fully built by a
// complete pass before any later step consumes it.
type run struct {
	opts    Options
	res     *Result
	postIDs *idset.Set
	userIDs *idset.Set
}

// Run executes the full filter pipeline: tags, posts (two passes), the
// post-keyed tables, post links, the derived post-tag relation, then users
// and badges. It stops at the first structural error; the error names the
// table whose output file may be left incomplete.
func Run(opts Options) (*Result, error) {
	if len(opts.Tags) == 0 {
		return nil, fmt.Errorf("filter: target tag set must not be empty")
	}
	if opts.Window.Start == "" || opts.Window.End == "" {
		return nil, fmt.Errorf("filter: date window must have both bounds")
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("filter: create output dir: %w", err)
	}

	r := &run{
		opts:    opts,
		res:     &Result{Written: make(map[string]int)},
		postIDs: idset.New(1 << 20),
		userIDs: idset.New(1 << 18),
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"tags", r.tags},
		{"posts", r.posts},
		{"comments", func() error { return r.postKeyed("comments") }},
		{"votes", func() error { return r.postKeyed("votes") }},
		{"posthistory", func() error { return r.postKeyed("posthistory") }},
		{"postlinks", r.postLinks},
		{"posttags", r.postTags},
		{"users", r.users},
		{"badges", r.badges},
	}
	for _, s := range steps {
		start := time.Now()
		err := s.fn()
		metrics.RecordStep(opts.Job, "filter_"+s.name, err, time.Since(start))
		if err != nil {
			return r.res, fmt.Errorf("filter %s: %w", s.name, err)
		}
	}
	log.Printf("filter: done: posts=%d users=%d", r.postIDs.Len(), r.userIDs.Len())
	return r.res, nil
}

// filterTable streams one dump table through accept, writing accepted rows
// to the filtered output. observe, when non-nil, runs for every accepted row
// (identifier accumulation). A missing source file skips the table.
//
// On a structural error the output envelope is left unfinished on purpose:
// completing it would disguise a partial extraction as a finished one.
func (r *run) filterTable(t schema.Table, accept func(*dump.Row) bool, observe func(*dump.Row)) error {
	src, err := r.openSource(t)
	if errors.Is(err, ErrMissingSource) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	out, w, err := r.createOutput(t)
	if err != nil {
		return err
	}
	defer out.Close()

	var scanned, written int
	rd := dump.NewReader(src, src.Name())
	err = rd.ForEach(func(row *dump.Row) error {
		scanned++
		if !accept(row) {
			return nil
		}
		if observe != nil {
			observe(row)
		}
		written++
		return w.WriteRow(row)
	})
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", out.Name(), err)
	}

	r.res.Written[t.Name] = written
	metrics.RecordRows(r.opts.Job, t.Name, int64(written))
	log.Printf("filter: %s: kept %d of %d rows", t.Name, written, scanned)
	return nil
}

func (r *run) tags() error {
	t, _ := schema.Lookup("tags")
	return r.filterTable(t, func(row *dump.Row) bool {
		return r.opts.Tags.ContainsName(row.Value("TagName"))
	}, nil)
}

// posts runs the mandatory two-pass structure. Pass 1 collects the IDs of
// relevant questions over a full traversal; only then can pass 2 judge
// answers, which may precede their parent question in dump order.
func (r *run) posts() error {
	t, _ := schema.Lookup("posts")

	qIDs := idset.New(1 << 20)
	src, err := r.openSource(t)
	if errors.Is(err, ErrMissingSource) {
		return nil
	}
	if err != nil {
		return err
	}
	pass1 := dump.NewReader(src, src.Name())
	err = pass1.ForEach(func(row *dump.Row) error {
		if row.Value("PostTypeId") != "1" {
			return nil
		}
		if !r.opts.Tags.Match(row.Value("Tags")) {
			return nil
		}
		if !r.opts.Window.Contains(row.Value("CreationDate")) {
			return nil
		}
		qIDs.Add(row.Value("Id"))
		return nil
	})
	src.Close()
	if err != nil {
		return err
	}
	log.Printf("filter: posts: pass 1 found %d relevant questions", qIDs.Len())

	// Pass 2 reopens the source; the reader is forward-only by contract.
	// Answers are accepted on parent membership alone; their own creation
	// date is intentionally not re-checked, so late answers to in-window
	// questions survive.
	return r.filterTable(t, func(row *dump.Row) bool {
		return qIDs.Contains(row.Value("Id")) || qIDs.Contains(row.Value("ParentId"))
	}, func(row *dump.Row) {
		r.postIDs.Add(row.Value("Id"))
		r.userIDs.Add(row.Value("OwnerUserId"))
		r.userIDs.Add(row.Value("LastEditorUserId"))
	})
}

// postKeyed filters comments, votes, and post history: the row's PostId must
// be a relevant post and its creation date must fall in the window. User IDs
// observed on accepted rows feed the users/badges stages.
func (r *run) postKeyed(name string) error {
	t, ok := schema.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown table %q", name)
	}
	return r.filterTable(t, func(row *dump.Row) bool {
		return r.postIDs.Contains(row.Value("PostId")) &&
			r.opts.Window.Contains(row.Value("CreationDate"))
	}, func(row *dump.Row) {
		uid, ok := row.Get("UserId")
		if !ok {
			uid = row.Value("OwnerUserId")
		}
		r.userIDs.Add(uid)
	})
}

func (r *run) postLinks() error {
	t, _ := schema.Lookup("postlinks")
	return r.filterTable(t, func(row *dump.Row) bool {
		linked := r.postIDs.Contains(row.Value("PostId")) ||
			r.postIDs.Contains(row.Value("RelatedPostId"))
		return linked && r.opts.Window.Contains(row.Value("CreationDate"))
	}, nil)
}

func (r *run) users() error {
	t, _ := schema.Lookup("users")
	// No date window for users: a profile predates or postdates its
	// activity freely.
	return r.filterTable(t, func(row *dump.Row) bool {
		return r.userIDs.Contains(row.Value("Id"))
	}, nil)
}

func (r *run) badges() error {
	t, _ := schema.Lookup("badges")
	return r.filterTable(t, func(row *dump.Row) bool {
		return r.userIDs.Contains(row.Value("UserId")) &&
			r.opts.Window.Contains(row.Value("Date"))
	}, nil)
}

func (r *run) openSource(t schema.Table) (*os.File, error) {
	path := filepath.Join(r.opts.InputDir, t.DumpFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("filter: %s not found; skipping table %s", path, t.Name)
		return nil, ErrMissingSource
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func (r *run) createOutput(t schema.Table) (*os.File, *dump.Writer, error) {
	path := filepath.Join(r.opts.OutputDir, t.FilteredFile)
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	w, err := dump.NewWriter(f, t.RootTag)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, w, nil
}
