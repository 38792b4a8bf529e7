// ABOUTME: Tracks the assistant's active context from bus events
// ABOUTME: Lets tools default to the lifecycle currently under interview
package handlers

import (
	"sync"

	"github.com/google/uuid"

	"github.com/orahq/orascan/bus"
)

// ContextTracker follows context-change events so the assistant can scope
// tool calls to the lifecycle the interview panel is focused on.
type ContextTracker struct {
	sub *bus.Subscription

	mu            sync.RWMutex
	context       string
	lifecycleID   uuid.UUID
	lifecycleName string
}

func NewContextTracker(events *bus.Bus) *ContextTracker {
	t := &ContextTracker{context: bus.ContextDefault}
	t.sub = events.Subscribe(bus.KindContextChange)
	go t.run()
	return t
}

func (t *ContextTracker) run() {
	for event := range t.sub.Events() {
		change, ok := event.(bus.ContextChange)
		if !ok {
			continue
		}
		t.mu.Lock()
		t.context = change.Context
		t.lifecycleID = change.LifecycleID
		t.lifecycleName = change.LifecycleName
		t.mu.Unlock()
	}
}

func (t *ContextTracker) Close() {
	t.sub.Close()
}

// ActiveLifecycle returns the lifecycle under interview, if the interview
// panel currently holds the context.
func (t *ContextTracker) ActiveLifecycle() (uuid.UUID, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.context != bus.ContextInterview || t.lifecycleID == uuid.Nil {
		return uuid.Nil, false
	}
	return t.lifecycleID, true
}
