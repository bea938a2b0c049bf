package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"soetl/internal/dump"
	"soetl/internal/metrics"
	"soetl/internal/schema"
)

// postTags synthesizes the many-to-many post-tag relation, which the dump
// only carries denormalized inside each question's Tags attribute.
//
// It runs entirely over stage-1 output: a name-to-ID map built from the
// filtered tags file, then one pass over the filtered posts file emitting a
// (PostId, TagId) row per decoded tag name found in the map. Emission order
// is post order, then tag order within a post. Tag names absent from the
// map (a post's secondary tags outside the target set) emit nothing.
func (r *run) postTags() error {
	tagsTable, _ := schema.Lookup("tags")
	postsTable, _ := schema.Lookup("posts")
	t, _ := schema.Lookup("posttags")

	tagID, err := r.readTagIDs(tagsTable)
	if errors.Is(err, ErrMissingSource) {
		return nil
	}
	if err != nil {
		return err
	}

	src, err := os.Open(filepath.Join(r.opts.OutputDir, postsTable.FilteredFile))
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("filter: %s not found; skipping table %s", postsTable.FilteredFile, t.Name)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", postsTable.FilteredFile, err)
	}
	defer src.Close()

	out, w, err := r.createOutput(t)
	if err != nil {
		return err
	}
	defer out.Close()

	var written int
	rd := dump.NewReader(src, src.Name())
	err = rd.ForEach(func(row *dump.Row) error {
		postID := row.Value("Id")
		tagsField := row.Value("Tags")
		if postID == "" || tagsField == "" {
			return nil
		}
		for _, name := range ParseTagList(tagsField) {
			id, ok := tagID[name]
			if !ok {
				continue
			}
			pair := dump.NewRow()
			pair.Set("PostId", postID)
			pair.Set("TagId", id)
			written++
			if err := w.WriteRow(pair); err != nil {
				return err
			}
		}
		return nil
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
	log.Printf("filter: posttags: wrote %d post-tag pairs", written)
	return nil
}

// readTagIDs maps tag name to tag ID from the filtered tags file.
func (r *run) readTagIDs(tagsTable schema.Table) (map[string]string, error) {
	path := filepath.Join(r.opts.OutputDir, tagsTable.FilteredFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("filter: %s not found; skipping table posttags", path)
		return nil, ErrMissingSource
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	tagID := make(map[string]string)
	rd := dump.NewReader(f, path)
	err = rd.ForEach(func(row *dump.Row) error {
		name := row.Value("TagName")
		id := row.Value("Id")
		if name != "" && id != "" {
			tagID[name] = id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tagID, nil
}
