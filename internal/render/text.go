package render

import (
	"fmt"
	"io"
	"sync"
)

// TextDisplay prints entries as a numbered list.
type TextDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTextDisplay(out io.Writer) *TextDisplay {
	return &TextDisplay{out: out}
}

func (d *TextDisplay) Replace(entries []Entry) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fmt.Fprintln(d.out, "── results ──")
	if len(entries) == 0 {
		fmt.Fprintln(d.out, "(none)")
		return
	}

	for i, e := range entries {
		fmt.Fprintf(d.out, "%d. %s\n", i+1, e.Name)
		fmt.Fprintf(d.out, "   %s\n", e.Address)
		fmt.Fprintf(d.out, "   %s\n", e.Summary())
		fmt.Fprint(d.out, "  ")
		for _, c := range e.Controls {
			fmt.Fprintf(d.out, " [%s %d]", c.Action, i+1)
		}
		fmt.Fprintln(d.out)
	}
}
