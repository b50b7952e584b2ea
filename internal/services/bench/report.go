package bench

import (
	"fmt"
	"io"
	"time"
)

// Bug is one failed expectation.
type Bug struct {
	Iteration int
	Message   string
}

// Timing is one measured exchange.
type Timing struct {
	Label   string
	Bits    int
	Elapsed time.Duration
}

// Report is the outcome of one check.
type Report struct {
	Name    string
	Bugs    []Bug
	Timings []Timing
	Elapsed time.Duration
}

// OK reports whether the check found no bugs.
func (r Report) OK() bool { return len(r.Bugs) == 0 }

func (r *Report) bug(i int, format string, args ...any) {
	r.Bugs = append(r.Bugs, Bug{Iteration: i, Message: fmt.Sprintf(format, args...)})
}

// Print writes a human-readable summary to w.
func (r Report) Print(w io.Writer) {
	status := "ok"
	if !r.OK() {
		status = fmt.Sprintf("%d bug(s)", len(r.Bugs))
	}
	fmt.Fprintf(w, "%-10s %-10s %v\n", r.Name, status, r.Elapsed.Round(time.Millisecond))
	for _, t := range r.Timings {
		fmt.Fprintf(w, "  %-12s %5d bits  %v\n", t.Label, t.Bits, t.Elapsed.Round(time.Microsecond))
	}
	for _, b := range r.Bugs {
		fmt.Fprintf(w, "  bug #%d: %s\n", b.Iteration, b.Message)
	}
}
