package watch

import (
	"stconflict/internal/model"
	"stconflict/internal/pipeline"
	"time"
)

type Options struct {
	IncludeHidden bool
	Debounce      time.Duration
	HashLimit     int64
}

// Feed is a running watcher whose events have been filtered and coalesced into at most one
// change notification per quiet period.
type Feed struct {
	w       *Watcher
	changes <-chan model.FileEvent
}

func Start(root string, opts Options) (*Feed, error) {
	w, err := New(256, opts.IncludeHidden)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(root); err != nil {
		w.Stop()
		return nil, err
	}

	ch := pipeline.Filter(w.Events(), w.root, opts.IncludeHidden)
	ch = pipeline.NewChecksumFilter(opts.HashLimit).Run(ch)
	ch = pipeline.Coalesce(ch, opts.Debounce)

	return &Feed{w: w, changes: ch}, nil
}

// Changes is closed after Stop.
func (f *Feed) Changes() <-chan model.FileEvent {
	return f.changes
}

func (f *Feed) Stop() {
	f.w.Stop()
}
