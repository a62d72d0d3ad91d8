// Package ledger persists the anchor descriptions and cumulative improvement
// list that keep long image sequences visually consistent.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// Ledger holds checkpoint anchors (free-text scene descriptions keyed by
// stringified day) and the ordered list of irreversible improvements. Both
// grow monotonically; there is no update or delete path.
type Ledger struct {
	Anchors      map[string]string `json:"anchors"`
	Improvements []string          `json:"improvements"`

	path string
}

// Load reads the ledger from path. A missing file yields an empty ledger.
func Load(path string) (*Ledger, error) {
	l := &Ledger{
		Anchors: make(map[string]string),
		path:    path,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("cannot parse ledger %s: %w", path, err)
	}
	if l.Anchors == nil {
		l.Anchors = make(map[string]string)
	}
	return l, nil
}

// Save overwrites the ledger file via write-temp-then-rename so a crash
// mid-write never leaves a torn file. Concurrent processes writing the same
// ledger are not protected against; runs against one output directory must
// be serialized by the operator.
func (l *Ledger) Save() error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode ledger: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("cannot write ledger: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("cannot finalize ledger: %w", err)
	}
	return nil
}

// RecordAnchor stores a checkpoint description for a day.
func (l *Ledger) RecordAnchor(day int, text string) {
	l.Anchors[strconv.Itoa(day)] = text
}

// AddImprovement appends an improvement unless it is already present.
// Returns true if the list changed.
func (l *Ledger) AddImprovement(text string) bool {
	for _, imp := range l.Improvements {
		if imp == text {
			return false
		}
	}
	l.Improvements = append(l.Improvements, text)
	return true
}

// AnchorFor returns the most recent recorded anchor strictly before day.
// Checkpoints that failed to record are skipped naturally: the lookup only
// sees anchors that made it into the ledger.
func (l *Ledger) AnchorFor(day int) (int, string, bool) {
	days := make([]int, 0, len(l.Anchors))
	for k := range l.Anchors {
		d, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if d < day {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return 0, "", false
	}
	sort.Ints(days)
	best := days[len(days)-1]
	return best, l.Anchors[strconv.Itoa(best)], true
}
