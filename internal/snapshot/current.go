package snapshot

import (
	"sync/atomic"
)

// Current holds the latest published weekly snapshot and notifies subscribers when it
// changes. The zero value is ready to use.
type Current struct {
	ptr atomic.Pointer[Snapshot]
	Notifier
}

// Load returns the current snapshot, or nil before the first Update.
func (c *Current) Load() *Snapshot {
	return c.ptr.Load()
}

// Update replaces the current snapshot. Subscribers are notified only when the ETag changes.
func (c *Current) Update(s *Snapshot) {
	prev := c.ptr.Swap(s)
	if prev != nil && prev.ETag == s.ETag && prev.ID == s.ID {
		return
	}
	c.Publish(s.Summary())
}
