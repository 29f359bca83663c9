package syscontrol

import (
	"context"
	"time"

	"vawter.tech/stopper"
)

// DefaultWatchInterval is the status poll interval used by Watch and Wait
// when the facade was built without an explicit interval.
const DefaultWatchInterval = 2 * time.Second

// WatchEvent represents a state or health change observed while watching
// a module
type WatchEvent struct {
	// Module is the snapshot that differed from the previous one
	Module SystemModule
}

// WatchCleanupFunc stops a watch and waits for its goroutine to exit
type WatchCleanupFunc func() error

// WithWatchInterval sets the poll interval used by Watch and Wait
func WithWatchInterval(d time.Duration) FacadeOption {
	return func(f *Facade) {
		if d > 0 {
			f.watchInterval = d
		}
	}
}

// Watch polls the module's status on the facade's watch interval and
// emits an event whenever the observed state or health changes. The first
// snapshot is always emitted, so callers immediately learn the current
// state. The remote control plane pushes nothing; polling Status is the
// only signal available for tracking eventual completion of scale
// operations.
//
// The returned cleanup function stops the poll goroutine and must be
// called when the watch is no longer needed; cancelling ctx stops it too.
func (f *Facade) Watch(ctx context.Context, module string) (<-chan WatchEvent, WatchCleanupFunc) {
	ch := make(chan WatchEvent, 10)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	sctx.Go(func(sctx *stopper.Context) error {
		ticker := time.NewTicker(f.watchInterval)
		defer ticker.Stop()

		last := f.Status(ctx, module)
		if !emitWatchEvent(sctx, ch, last) {
			return nil
		}

		for {
			select {
			case <-sctx.Stopping():
				return nil
			case <-ticker.C:
				current := f.Status(ctx, module)
				if current.State != last.State || current.Health != last.Health {
					last = current
					if !emitWatchEvent(sctx, ch, current) {
						return nil
					}
				}
			}
		}
	})

	return ch, cleanup
}

// emitWatchEvent sends an event unless the watch is stopping; it reports
// whether the watch should keep running
func emitWatchEvent(sctx *stopper.Context, ch chan<- WatchEvent, snapshot SystemModule) bool {
	select {
	case ch <- WatchEvent{Module: snapshot}:
		return true
	case <-sctx.Stopping():
		return false
	}
}

// Wait blocks until the module reaches one of the given states, polling
// on the facade's watch interval. With no states it returns on the first
// observed change. The error is non-nil only when ctx ends first.
func (f *Facade) Wait(ctx context.Context, module string, states ...ModuleState) (SystemModule, error) {
	current := f.Status(ctx, module)
	if len(states) > 0 && matchesState(current, states) {
		return current, nil
	}

	events, cleanup := f.Watch(ctx, module)
	defer func() { _ = cleanup() }()

	first := true
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return degradedModule(module), ctx.Err()
			}
			if first {
				// Initial snapshot, already inspected above
				first = false
				if len(states) == 0 {
					continue
				}
			}
			if len(states) == 0 || matchesState(event.Module, states) {
				return event.Module, nil
			}
		case <-ctx.Done():
			return degradedModule(module), ctx.Err()
		}
	}
}

// matchesState reports whether the snapshot's state is one of states
func matchesState(snapshot SystemModule, states []ModuleState) bool {
	for _, s := range states {
		if snapshot.State == s {
			return true
		}
	}
	return false
}
