// Package tui renders the display region in a terminal.
//
// [View] is a text-format sink: every SetContent replaces the body pane
// wholesale. A header shows the title and how long ago the region was last
// replaced, and a bottom pane receives log output via [View.LogWriter].
package tui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	headerRefresh = time.Second
	logPaneHeight = 6
)

// View is a full-screen terminal display. Safe for concurrent use.
type View struct {
	app    *tview.Application
	header *tview.TextView
	body   *tview.TextView
	logs   *tview.TextView
	title  string

	mu        sync.Mutex
	running   bool
	content   string
	updatedAt time.Time

	// signals the UI loop that content changed; holds at most one pending wake-up
	updates chan struct{}

	// closed on the first draw
	ready chan struct{}

	// drawn is called on the UI goroutine after the body is replaced.
	drawn func(string)
}

// Option configures a [View].
type Option func(*View)

// WithScreen runs the view on the given screen instead of the real terminal.
func WithScreen(screen tcell.Screen) Option {
	return func(v *View) {
		v.app.SetScreen(screen)
	}
}

// New creates a View titled title. Nothing is drawn until [View.Run].
func New(title string, opts ...Option) *View {
	header := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	header.SetTextColor(tcell.ColorYellow)

	body := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(true)
	body.SetBorder(true)

	logs := tview.NewTextView().
		SetDynamicColors(false).
		SetWrap(false).
		SetMaxLines(200)
	logs.SetBorder(true).SetTitle("Log").SetTitleAlign(tview.AlignLeft)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, false).
		AddItem(body, 0, 1, true).
		AddItem(logs, logPaneHeight, 0, false)

	v := &View{
		app:     tview.NewApplication().SetRoot(layout, true).EnableMouse(false),
		header:  header,
		body:    body,
		logs:    logs,
		title:   title,
		updates: make(chan struct{}, 1),
		ready:   make(chan struct{}),
	}

	var once sync.Once
	v.app.SetBeforeDrawFunc(func(tcell.Screen) bool {
		once.Do(func() { close(v.ready) })
		return false
	})

	v.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q') {
			v.app.Stop()
			return nil
		}
		return event
	})

	for _, opt := range opts {
		opt(v)
	}

	header.SetText(v.headerText(time.Now()))
	return v
}

// SetContent replaces the body with content.
func (v *View) SetContent(content string) {
	v.mu.Lock()
	v.content = content
	v.updatedAt = time.Now()
	running := v.running
	v.mu.Unlock()

	if !running {
		v.body.SetText(content)
		return
	}

	select {
	case v.updates <- struct{}{}:
	default:
		// a wake-up is already pending and will pick up the latest content
	}
}

// Content returns the content most recently passed to SetContent.
func (v *View) Content() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.content
}

// Run draws the view and blocks until ctx is cancelled or the user presses q.
func (v *View) Run(ctx context.Context) error {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return fmt.Errorf("view already running")
	}
	v.running = true
	v.mu.Unlock()

	defer func() {
		v.mu.Lock()
		v.running = false
		v.mu.Unlock()
	}()

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go v.updateLoop(loopCtx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- v.app.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// stopping before the first draw would race the screen setup in app.Run
	select {
	case <-v.ready:
		v.app.Stop()
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Stop closes the view. Run then returns.
func (v *View) Stop() {
	v.app.Stop()
}

func (v *View) updateLoop(ctx context.Context) {
	ticker := time.NewTicker(headerRefresh)
	defer ticker.Stop()

	// pick up content set before Run
	v.redraw()

	for {
		select {
		case <-ctx.Done():
			return
		case <-v.updates:
			v.redraw()
		case now := <-ticker.C:
			text := v.headerText(now)
			v.app.QueueUpdateDraw(func() {
				v.header.SetText(text)
			})
		}
	}
}

func (v *View) redraw() {
	v.mu.Lock()
	content := v.content
	v.mu.Unlock()

	header := v.headerText(time.Now())
	v.app.QueueUpdateDraw(func() {
		v.body.SetText(content)
		v.body.ScrollToBeginning()
		v.header.SetText(header)
		if v.drawn != nil {
			v.drawn(content)
		}
	})
}

func (v *View) headerText(now time.Time) string {
	v.mu.Lock()
	updatedAt := v.updatedAt
	v.mu.Unlock()

	status := "waiting for data"
	if !updatedAt.IsZero() {
		status = "updated " + humanize.RelTime(updatedAt, now, "ago", "from now")
	}
	return fmt.Sprintf("[::b]%s[::-]  %s  [gray](q to quit)", tview.Escape(v.title), status)
}

// LogWriter returns a writer that appends to the log pane.
func (v *View) LogWriter() io.Writer {
	return &paneWriter{view: v}
}

type paneWriter struct {
	view *View
}

func (w *paneWriter) Write(p []byte) (int, error) {
	text := string(p)

	w.view.mu.Lock()
	running := w.view.running
	w.view.mu.Unlock()

	if !running {
		// TextView.Write locks the view itself
		_, _ = io.WriteString(w.view.logs, text)
		return len(p), nil
	}

	w.view.app.QueueUpdateDraw(func() {
		_, _ = io.WriteString(w.view.logs, text)
		w.view.logs.ScrollToEnd()
	})
	return len(p), nil
}
