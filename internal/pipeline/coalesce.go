package pipeline

import (
	"stconflict/internal/model"
	"time"
)

// Coalesce collapses bursts of events into one: the last event of a burst is forwarded once
// no new event has arrived for delay. A pending event is flushed when inCh closes.
func Coalesce(inCh <-chan model.FileEvent, delay time.Duration) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, 1)

	go func() {
		defer close(outCh)

		var (
			pending model.FileEvent
			has     bool
			timer   *time.Timer
			fire    <-chan time.Time
		)

		for {
			select {
			case event, ok := <-inCh:
				if !ok {
					if timer != nil {
						timer.Stop()
					}
					if has {
						outCh <- pending
					}
					return
				}

				pending, has = event, true
				if timer == nil {
					timer = time.NewTimer(delay)
				} else {
					timer.Reset(delay)
				}
				fire = timer.C

			case <-fire:
				fire = nil
				if has {
					outCh <- pending
					has = false
				}
			}
		}
	}()

	return outCh
}
