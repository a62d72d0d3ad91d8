// Package report generates summary reports of a generation run.
package report

import (
	"fmt"
	"io"

	"github.com/dioramalab/diorama/internal/driver"
)

// Print writes a run summary to the given writer.
func Print(w io.Writer, s *driver.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Summary ===")
	fmt.Fprintf(w, "Theme:               %s\n", s.Theme)
	fmt.Fprintf(w, "Images generated:    %d\n", s.Generated)
	fmt.Fprintf(w, "Already present:     %d\n", s.Skipped)
	if s.Failed > 0 {
		fmt.Fprintf(w, "Days failed:         %d\n", s.Failed)
		fmt.Fprintf(w, "Failed days:         %v\n", s.FailedDays)
	}
	fmt.Fprintf(w, "Images on disk:      %d/%d\n", s.Present, s.Target)

	if s.Present == s.Target {
		fmt.Fprintln(w, "\nAll days complete.")
	} else {
		fmt.Fprintln(w, "\nRe-run to fill in the missing days.")
	}
}
