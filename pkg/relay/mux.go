package relay

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
)

// ServeMux is the relay's subscription registry. It maps event names to an
// ordered list of handlers; insertion order is invocation order.
//
// Handlers may be registered concurrently with dispatch. A handler added
// while an event is being dispatched first sees the next event.
type ServeMux struct {
	mu        sync.RWMutex
	handlers  map[string][]Handler
	observers []Handler

	log Logger
}

// NewServeMux creates an empty registry. A nil logger uses DefaultLogger.
func NewServeMux(log Logger) *ServeMux {
	if log == nil {
		log = DefaultLogger()
	}
	return &ServeMux{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Handle registers h for events named name. The same handler may be
// registered more than once and is then invoked once per registration.
func (sm *ServeMux) Handle(name string, h Handler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.handlers[name] = append(sm.handlers[name], h)
}

// HandleFunc registers fn for events named name.
func (sm *ServeMux) HandleFunc(name string, fn func(*Event)) {
	sm.Handle(name, HandlerFunc(fn))
}

// Observe registers h for every event, regardless of name. Observers run
// before named handlers.
func (sm *ServeMux) Observe(h Handler) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.observers = append(sm.observers, h)
}

// Dispatch delivers ev to the observers and to every handler registered for
// ev.Type, sequentially and in registration order. It returns the number of
// named handlers invoked. A panicking handler is logged and skipped.
func (sm *ServeMux) Dispatch(ev *Event) int {
	sm.mu.RLock()
	observers := sm.observers
	handlers := sm.handlers[ev.Type]
	sm.mu.RUnlock()

	for _, h := range observers {
		sm.call(h, ev)
	}
	for _, h := range handlers {
		sm.call(h, ev)
	}
	if len(handlers) == 0 {
		sm.log.DebugPrintf("no handler for %q", ev.Type)
	}
	return len(handlers)
}

func (sm *ServeMux) call(h Handler, ev *Event) {
	defer func() {
		if r := recover(); r != nil {
			sm.log.ErrorPrintf("panic in handler for %q: %v\n%s", ev.Type, r, debug.Stack())
		}
	}()
	h.HandleEvent(ev)
}

// Len returns the number of handlers registered for name.
func (sm *ServeMux) Len(name string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.handlers[name])
}

func (sm *ServeMux) String() string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	names := make([]string, 0, len(sm.handlers))
	for name := range sm.handlers {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s (%d)\n", name, len(sm.handlers[name]))
	}
	return b.String()
}
