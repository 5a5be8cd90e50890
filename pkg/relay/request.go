package relay

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// ErrRequestTimeout is returned by Request when no reply arrives in time.
var ErrRequestTimeout = errors.New("relay: request timed out")

// newRequestID generates a unique request ID.
func newRequestID() string {
	return "req_" + uuid.New().String()[:12]
}

type pendingRequest struct {
	id    string
	name  string
	reply chan *Event
}

// pendingSet tracks requests awaiting a reply. Entries are ordered by
// creation so that type-only replies go to the oldest waiter.
type pendingSet struct {
	mu    sync.Mutex
	byID  map[string]*pendingRequest
	order []*pendingRequest
}

func newPendingSet() *pendingSet {
	return &pendingSet{byID: make(map[string]*pendingRequest)}
}

func (p *pendingSet) add(id, name string) *pendingRequest {
	req := &pendingRequest{id: id, name: name, reply: make(chan *Event, 1)}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[id] = req
	p.order = append(p.order, req)
	return req
}

func (p *pendingSet) remove(req *pendingRequest) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removeLocked(req)
}

func (p *pendingSet) removeLocked(req *pendingRequest) {
	delete(p.byID, req.id)
	if i := slices.Index(p.order, req); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
}

// resolve hands ev to the request it answers and reports whether one was
// found. The matched request is removed from the set.
func (p *pendingSet) resolve(ev *Event) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	var req *pendingRequest
	if id := ev.RequestID(); id != "" {
		req = p.byID[id]
	} else {
		for _, r := range p.order {
			if r.name == ev.Type {
				req = r
				break
			}
		}
	}
	if req == nil {
		return false
	}
	p.removeLocked(req)
	req.reply <- ev
	return true
}

// Len returns the number of requests awaiting a reply.
func (p *pendingSet) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.order)
}
