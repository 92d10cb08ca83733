package bookmarks

import (
	"fmt"
	"net/url"

	"github.com/nikbrunner/placemarks/internal/model"
)

// DataChangedListener is told that the category snapshot was replaced.
type DataChangedListener interface {
	OnChanged()
}

// LoadingListener receives bulk load and import events.
type LoadingListener interface {
	OnLoadingStarted()
	OnLoadingFinished()
	OnFileUnsupported(uri *url.URL)
	OnFileDownloadFailed(uri *url.URL, reason string)
	OnFileImportSuccessful()
	OnFileImportFailed()
}

// NopLoadingListener implements LoadingListener with no-op methods.
// Embed it to handle only some events.
type NopLoadingListener struct{}

func (NopLoadingListener) OnLoadingStarted()                     {}
func (NopLoadingListener) OnLoadingFinished()                    {}
func (NopLoadingListener) OnFileUnsupported(*url.URL)            {}
func (NopLoadingListener) OnFileDownloadFailed(*url.URL, string) {}
func (NopLoadingListener) OnFileImportSuccessful()               {}
func (NopLoadingListener) OnFileImportFailed()                   {}

// SortingListener receives every sort outcome. Listeners must drop results
// whose timestamp is not the one they issued last; see SortTracker.
type SortingListener interface {
	OnSortingCompleted(blocks []model.SortedBlock, timestamp int64)
	OnSortingCancelled(timestamp int64)
}

// SharingListener receives every sharing outcome.
type SharingListener interface {
	OnPreparedFileForSharing(result model.SharingResult)
}

// registry is an ordered set of listeners. Adding a listener twice or
// removing an unknown one is a programming error and panics.
// L must hold comparable dynamic values, such as pointers.
type registry[L comparable] struct {
	kind      string
	listeners []L
}

func newRegistry[L comparable](kind string) *registry[L] {
	return &registry[L]{kind: kind}
}

func (r *registry[L]) add(l L) {
	if r.indexOf(l) >= 0 {
		panic(fmt.Sprintf("bookmarks: %s listener %v is already registered", r.kind, l))
	}
	r.listeners = append(r.listeners, l)
}

func (r *registry[L]) remove(l L) {
	i := r.indexOf(l)
	if i < 0 {
		panic(fmt.Sprintf("bookmarks: %s listener %v was never registered", r.kind, l))
	}
	r.listeners = append(r.listeners[:i:i], r.listeners[i+1:]...)
}

func (r *registry[L]) indexOf(l L) int {
	for i, existing := range r.listeners {
		if existing == l {
			return i
		}
	}
	return -1
}

func (r *registry[L]) len() int {
	return len(r.listeners)
}

// each calls fn for every listener in registration order. Listeners added or
// removed by fn take effect from the next notification.
func (r *registry[L]) each(fn func(L)) {
	for _, l := range r.listeners {
		fn(l)
	}
}
