// Package handler binds worker entry points to queue names.
//
// A worker definition may carry executable logic next to its config. The
// relay path never calls it; this registry exists for the in-process side
// that does, mirroring the run(payload, ctx) contract of the wire format's
// worker modules.
package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler is a worker's entry point. Payload is the decoded message body;
// the returned value is the worker's result structure.
type Handler func(ctx context.Context, payload any) (any, error)

// Registry maps queue names to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds a handler to a queue. Re-registering a queue is an error;
// silently replacing a worker's logic hides deployment mistakes.
func (r *Registry) Register(queue string, h Handler) error {
	if queue == "" {
		return fmt.Errorf("queue name is required")
	}
	if h == nil {
		return fmt.Errorf("handler for queue %q is nil", queue)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[queue]; ok {
		return fmt.Errorf("queue %q already has a handler", queue)
	}
	r.handlers[queue] = h
	return nil
}

// Resolve returns the handler bound to a queue.
func (r *Registry) Resolve(queue string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[queue]
	return h, ok
}

// Queues returns the bound queue names in sorted order.
func (r *Registry) Queues() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	queues := make([]string, 0, len(r.handlers))
	for queue := range r.handlers {
		queues = append(queues, queue)
	}
	sort.Strings(queues)
	return queues
}
