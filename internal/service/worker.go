package service

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/queue"
)

// EventHandler reacts to a single customer event.
type EventHandler func(event model.CustomerEvent) error

// EventWorker decodes queued customer events and hands them to Handle.
type EventWorker struct {
	Handle EventHandler

	mu     sync.Mutex
	counts map[string]int
}

// Constructor
func NewEventWorker(handle EventHandler) *EventWorker {
	return &EventWorker{
		Handle: handle,
		counts: make(map[string]int),
	}
}

// Subscribe registers the worker on topic of q.
func (w *EventWorker) Subscribe(q queue.Queue, topic string) error {
	return q.Subscribe(topic, w.HandlePayload)
}

// HandlePayload accepts an event value (in-memory queue) or its JSON encoding
// (AMQP queue).
func (w *EventWorker) HandlePayload(payload any) error {
	var event model.CustomerEvent

	switch p := payload.(type) {
	case model.CustomerEvent:
		event = p
	case *model.CustomerEvent:
		event = *p
	case []byte:
		if err := json.Unmarshal(p, &event); err != nil {
			return fmt.Errorf("invalid customer event: %w", err)
		}
	default:
		return fmt.Errorf("unexpected payload type %T", payload)
	}

	if err := w.Handle(event); err != nil {
		return err
	}

	w.mu.Lock()
	w.counts[event.Type]++
	w.mu.Unlock()

	return nil
}

// Stats returns how many events of each type were handled successfully.
func (w *EventWorker) Stats() map[string]int {
	w.mu.Lock()
	defer w.mu.Unlock()

	stats := map[string]int{
		model.CustomerRegistered: 0,
		model.CustomerUpdated:    0,
		model.CustomerDeleted:    0,
	}
	for k, v := range w.counts {
		stats[k] = v
	}
	return stats
}
