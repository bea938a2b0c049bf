// Package file provides local-file inputs that configure a run, currently
// the tag-list format: one value per line, blank lines and '#' comments
// skipped, order preserved.
package file

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadList reads a line-list file into a string slice.
func ReadList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file: open list %s: %w", path, err)
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("file: read list %s: %w", path, err)
	}
	return out, nil
}
