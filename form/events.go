package form

import "slices"

// EventKind tells listeners which part of the form state changed.
type EventKind uint8

const (
	// EventValues fires after field values change.
	EventValues EventKind = iota + 1
	// EventErrors fires after error messages change.
	EventErrors
	// EventStatus fires when processing or success flips.
	EventStatus
	// EventProgress fires when the upload progress changes or is cleared.
	EventProgress
)

// Event describes a state change. Fields lists the affected field names
// when the change is field-scoped.
type Event struct {
	Kind   EventKind
	Fields []string
}

// Listener receives state change notifications.
type Listener func(Event)

// Subscribe registers a listener and returns a function removing it.
// Listeners are called synchronously, after the state lock is released,
// so they may read the form.
func (f *Form) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	f.mu.Lock()
	id := f.nextListener
	f.nextListener++
	f.listeners[id] = l
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.listeners, id)
		f.mu.Unlock()
	}
}

func (f *Form) notify(events ...Event) {
	if len(events) == 0 {
		return
	}
	f.mu.RLock()
	if len(f.listeners) == 0 {
		f.mu.RUnlock()
		return
	}
	ids := make([]int, 0, len(f.listeners))
	for id := range f.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, f.listeners[id])
	}
	f.mu.RUnlock()

	for _, ev := range events {
		for _, l := range listeners {
			l(ev)
		}
	}
}
