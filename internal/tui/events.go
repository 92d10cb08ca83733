package tui

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/placemarks/internal/mainloop"
	"github.com/nikbrunner/placemarks/internal/model"
)

// RunMsg carries a function posted to the UI loop. App.Update runs Fn.
type RunMsg struct {
	Fn func()
}

// Loop posts functions into a bubbletea program. Functions run inside
// App.Update, one at a time and in posting order. Post never blocks, so it
// is safe to call from Update itself.
type Loop struct {
	queue *mainloop.Queue

	mu      sync.Mutex
	program *tea.Program
}

// NewLoop creates a Loop. Attach a program before calling Run.
func NewLoop() *Loop {
	return &Loop{queue: mainloop.New()}
}

// Attach sets the program that receives posted functions.
func (l *Loop) Attach(p *tea.Program) {
	l.mu.Lock()
	l.program = p
	l.mu.Unlock()
}

// Post implements bookmarks.Poster.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.queue.Post(func() { l.send(RunMsg{Fn: fn}) })
}

// Run forwards posted functions to the program until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	return l.queue.Run(ctx)
}

func (l *Loop) send(msg tea.Msg) {
	l.mu.Lock()
	p := l.program
	l.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Messages produced by Manager callbacks.
type categoriesChangedMsg struct{}

type loadingMsg struct{ loading bool }

type statusMsg struct {
	text  string
	isErr bool
}

type sortedMsg struct {
	blocks    []model.SortedBlock
	timestamp int64
}

type sortCancelledMsg struct{ timestamp int64 }

type sharedMsg struct{ result model.SharingResult }

// listener receives Manager callbacks. They arrive while a RunMsg is being
// handled, so they are queued and handled right after it by the same Update.
type listener struct {
	pending []tea.Msg
}

func (l *listener) push(msg tea.Msg) {
	l.pending = append(l.pending, msg)
}

func (l *listener) take() []tea.Msg {
	msgs := l.pending
	l.pending = nil
	return msgs
}

func (l *listener) OnChanged()         { l.push(categoriesChangedMsg{}) }
func (l *listener) OnLoadingStarted()  { l.push(loadingMsg{loading: true}) }
func (l *listener) OnLoadingFinished() { l.push(loadingMsg{loading: false}) }

func (l *listener) OnFileUnsupported(uri *url.URL) {
	l.push(statusMsg{text: fmt.Sprintf("Unsupported file: %s", uri), isErr: true})
}

func (l *listener) OnFileDownloadFailed(uri *url.URL, reason string) {
	l.push(statusMsg{text: fmt.Sprintf("Download failed: %s: %s", uri, reason), isErr: true})
}

func (l *listener) OnFileImportSuccessful() { l.push(statusMsg{text: "Import finished"}) }
func (l *listener) OnFileImportFailed()     { l.push(statusMsg{text: "Import failed", isErr: true}) }

func (l *listener) OnSortingCompleted(blocks []model.SortedBlock, timestamp int64) {
	l.push(sortedMsg{blocks: blocks, timestamp: timestamp})
}

func (l *listener) OnSortingCancelled(timestamp int64) {
	l.push(sortCancelledMsg{timestamp: timestamp})
}

func (l *listener) OnPreparedFileForSharing(result model.SharingResult) {
	l.push(sharedMsg{result: result})
}
