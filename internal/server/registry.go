package server

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/ironsheep/photo-redact/internal/session"
)

// entry is one open session and the per-call answer to its discard prompt.
type entry struct {
	id          string
	sess        *session.Session
	discard     bool
	unsubscribe func()
}

// registry tracks open sessions by id. The most recently opened session is
// the default target of tool calls.
type registry struct {
	mu     sync.Mutex
	byID   map[string]*entry
	active string
	next   int
}

func newRegistry() *registry {
	return &registry{byID: make(map[string]*entry)}
}

// reserve allocates an entry before its session exists so the session's
// prompt can refer to it.
func (r *registry) reserve() *entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	return &entry{id: "s" + strconv.Itoa(r.next)}
}

func (r *registry) add(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[e.id] = e
	r.active = e.id
}

// get returns the session with id, or the active one when id is empty.
func (r *registry) get(id string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		id = r.active
	}
	e, ok := r.byID[id]
	if !ok {
		if id == "" {
			return nil, fmt.Errorf("no open session")
		}
		return nil, fmt.Errorf("unknown session: %s", id)
	}
	return e, nil
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.byID[id]; ok && e.unsubscribe != nil {
		e.unsubscribe()
	}
	delete(r.byID, id)
	if r.active == id {
		r.active = ""
	}
}

func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// closeAll tears down every session without prompting.
func (r *registry) closeAll() {
	r.mu.Lock()
	entries := make([]*entry, 0, len(r.byID))
	for _, e := range r.byID {
		entries = append(entries, e)
	}
	r.byID = make(map[string]*entry)
	r.active = ""
	r.mu.Unlock()

	for _, e := range entries {
		if e.unsubscribe != nil {
			e.unsubscribe()
		}
		e.sess.Close()
	}
}
