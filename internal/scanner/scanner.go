// Package scanner locates generated day images in an output directory.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

var dayFile = regexp.MustCompile(`^day-(\d{3})\.png$`)

// DayPath returns the canonical image path for a day: day-NNN.png with a
// zero-padded day number. Existence of this file is the sole signal that the
// day is done.
func DayPath(dir string, day int) string {
	return filepath.Join(dir, fmt.Sprintf("day-%03d.png", day))
}

// Result holds the outcome of scanning an output directory.
type Result struct {
	Days         []int // ascending
	Paths        []string
	SkippedCount int // entries that are not day images
}

// Done reports which days already have an image.
func (r *Result) Done() map[int]bool {
	done := make(map[int]bool, len(r.Days))
	for _, d := range r.Days {
		done[d] = true
	}
	return done
}

// Scan reads dir (non-recursive) for day-NNN.png files. A missing directory
// yields an empty result, not an error: nothing has been generated yet.
func Scan(dir string) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return &Result{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read directory: %w", err)
	}

	type dayEntry struct {
		day  int
		path string
	}
	var found []dayEntry
	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := dayFile.FindStringSubmatch(entry.Name())
		if m == nil {
			result.SkippedCount++
			continue
		}
		day, err := strconv.Atoi(m[1])
		if err != nil || day < 1 {
			result.SkippedCount++
			continue
		}
		found = append(found, dayEntry{day, filepath.Join(dir, entry.Name())})
	}

	sort.Slice(found, func(i, j int) bool { return found[i].day < found[j].day })
	for _, e := range found {
		result.Days = append(result.Days, e.day)
		result.Paths = append(result.Paths, e.path)
	}
	return result, nil
}
