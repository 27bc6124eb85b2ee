// Package lmi writes and reads the interchange index: a line-oriented,
// human-readable listing of every library a build produced, regenerated
// from scratch on every build so it always reflects the last build's
// output rather than an accumulated history.
package lmi

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brickyard-pm/brickyard/internal/buildplan"
)

// Entry is one library's record: its identity, where its built archive
// lives, and the include paths a consumer needs to use it.
type Entry struct {
	Name      string
	Namespace string
	Archive   string
	Include   []string
}

// FromPlan extracts one Entry per archive node in plan, in plan order.
func FromPlan(plan *buildplan.Plan) []Entry {
	entries := make([]Entry, 0, len(plan.Archives))
	for _, a := range plan.Archives {
		entries = append(entries, Entry{
			Name:      a.OwnerId.Name,
			Namespace: a.OwnerId.Namespace,
			Archive:   a.Output,
			Include:   a.Usage.IncludePaths,
		})
	}
	return entries
}

// Write renders entries as blank-line-separated key: value blocks.
func Write(w io.Writer, entries []Entry) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "name: %s\n", e.Name); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "namespace: %s\n", e.Namespace); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "archive: %s\n", e.Archive); err != nil {
			return err
		}
		for _, inc := range e.Include {
			if _, err := fmt.Fprintf(w, "include: %s\n", inc); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteFile writes entries to path, truncating any prior contents — the
// index always reflects only the most recent build.
func WriteFile(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Write(f, entries)
}

// Parse reads an index back into its entries. Unknown keys are ignored
// rather than rejected, since the format is meant to be forward-extensible
// for consumers written against an older lmi package.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	var cur *Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if cur != nil {
				entries = append(entries, *cur)
				cur = nil
			}
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if cur == nil {
			cur = &Entry{}
		}
		switch key {
		case "name":
			cur.Name = value
		case "namespace":
			cur.Namespace = value
		case "archive":
			cur.Archive = value
		case "include":
			cur.Include = append(cur.Include, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		entries = append(entries, *cur)
	}
	return entries, nil
}

// ParseFile reads and parses the index at path.
func ParseFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
