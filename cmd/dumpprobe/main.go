// Command dumpprobe inspects a dump XML file: row count, attribute
// inventory with occurrence counts, and a sample value per attribute. Useful
// for checking a new dump's schema drift before running an extraction.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"soetl/internal/dump"
)

const sampleLimit = 60 // max printed sample length

func main() {
	var (
		path  string
		limit int
	)
	flag.StringVar(&path, "file", "", "dump XML file to inspect")
	flag.IntVar(&limit, "limit", 0, "stop after this many rows (0 = all)")
	flag.Parse()

	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: dumpprobe -file Posts.xml [-limit N]")
		os.Exit(2)
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer f.Close()

	type attrStat struct {
		count  int
		sample string
	}
	stats := map[string]*attrStat{}
	rows := 0

	rd := dump.NewReader(f, path)
	for {
		row, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("%v", err)
		}
		rows++
		for _, name := range row.Names() {
			st, ok := stats[name]
			if !ok {
				st = &attrStat{sample: truncate(row.Value(name))}
				stats[name] = st
			}
			st.count++
		}
		if limit > 0 && rows >= limit {
			break
		}
	}

	fmt.Printf("%s: %d rows scanned\n\n", path, rows)
	names := make([]string, 0, len(stats))
	for n := range stats {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Printf("%-24s %10s  %s\n", "attribute", "present", "sample")
	for _, n := range names {
		st := stats[n]
		fmt.Printf("%-24s %10d  %q\n", n, st.count, st.sample)
	}
}

func truncate(s string) string {
	if len(s) > sampleLimit {
		return s[:sampleLimit] + "..."
	}
	return s
}
