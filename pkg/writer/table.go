package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/perfkit/usertop/pkg/sampler"
)

// Table writes a ranked per-user CPU time report to an io.Writer
type Table struct {
	w io.Writer
}

// NewTable creates a new Table writer with the provided writer
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// Write renders the ranked totals. Users with no charged time are skipped
// and do not consume a rank.
func (t *Table) Write(totals []sampler.UserTotal) error {
	if _, err := fmt.Fprintf(t.w, "%-4s %-20s %s\n", "Rank", "User", "CPU Time (milliseconds)"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(t.w, strings.Repeat("-", 40)); err != nil {
		return err
	}

	rank := 1
	for _, u := range totals {
		if u.CPUMillis <= 0 {
			continue
		}
		if _, err := fmt.Fprintf(t.w, "%-4d %-20s %d\n", rank, u.Name, u.CPUMillis); err != nil {
			return err
		}
		rank++
	}

	return nil
}

// Name is the name of this writer
func (t *Table) Name() string {
	return "table"
}
