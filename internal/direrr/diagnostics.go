package direrr

import "sync"

// Diagnostics accumulates the non-fatal errors produced during a run (read
// failures, parse failures, pattern timeouts, model failures) so hosts can
// present them alongside the report, per spec §7. Safe for concurrent use.
type Diagnostics struct {
	mu    sync.Mutex
	items []error
}

// Add records err. Nil errors are ignored.
func (d *Diagnostics) Add(err error) {
	if err == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, err)
}

// Items returns a snapshot of the recorded diagnostics, in recording order.
func (d *Diagnostics) Items() []error {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]error, len(d.items))
	copy(out, d.items)
	return out
}

// Len reports how many diagnostics have been recorded.
func (d *Diagnostics) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}
