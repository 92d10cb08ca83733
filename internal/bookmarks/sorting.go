package bookmarks

// SortTracker implements the last-request-wins rule for sort results.
// It remembers, per category, the timestamp of the most recently issued
// request; any result carrying another timestamp is stale.
//
// Superseded requests are not cancelled in the Store. They run to completion
// and their results are dropped by Accept.
type SortTracker struct {
	last    int64
	current map[int64]int64
}

// NewSortTracker creates a tracker with no requests issued.
func NewSortTracker() *SortTracker {
	return &SortTracker{current: make(map[int64]int64)}
}

// Issue returns a fresh timestamp for a new request on categoryID and makes
// it the current one. Timestamps grow monotonically across all categories.
func (t *SortTracker) Issue(categoryID int64) int64 {
	t.last++
	t.current[categoryID] = t.last
	return t.last
}

// Track records a caller-chosen timestamp as the current request for categoryID.
func (t *SortTracker) Track(categoryID, timestamp int64) {
	t.last = max(t.last, timestamp)
	t.current[categoryID] = timestamp
}

// Accept reports whether a result tagged timestamp belongs to the most recent
// request on categoryID.
func (t *SortTracker) Accept(categoryID, timestamp int64) bool {
	current, ok := t.current[categoryID]
	return ok && current == timestamp
}

// Current returns the timestamp of the most recent request on categoryID.
func (t *SortTracker) Current(categoryID int64) (int64, bool) {
	current, ok := t.current[categoryID]
	return current, ok
}

// Forget drops the pending request of categoryID; later results are stale.
func (t *SortTracker) Forget(categoryID int64) {
	delete(t.current, categoryID)
}
