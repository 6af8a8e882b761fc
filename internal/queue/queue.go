package queue

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CustomerEventsTopic is the default topic customer lifecycle events go to.
const CustomerEventsTopic = "customer_events"

// Publisher is the write side of a queue.
type Publisher interface {
	Publish(topic string, payload any) error
}

// Queue adds subscriptions to a Publisher.
type Queue interface {
	Publisher
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue delivers every published payload to all handlers of the topic,
// retrying failed deliveries with a linear backoff.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error

	MaxRetries int
	Backoff    time.Duration

	wg sync.WaitGroup
}

// NewInMemoryQueue returns a queue retrying failed deliveries three times.
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]func(payload any) error),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// Publish hands payload to every handler of topic. Each handler runs in its
// own goroutine; Publish does not wait for them.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	subscribers := append([]func(payload any) error(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(subscribers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	q.wg.Add(len(subscribers))
	for _, handle := range subscribers {
		go q.deliver(topic, payload, handle)
	}

	return nil
}

// deliver calls handle until it succeeds or MaxRetries retries have failed,
// sleeping attempt*Backoff between tries.
func (q *InMemoryQueue) deliver(topic string, payload any, handle func(payload any) error) {
	defer q.wg.Done()

	log := logrus.WithField("topic", topic)

	for attempt := 0; ; attempt++ {
		err := handle(payload)
		if err == nil {
			log.Debug("delivered")
			return
		}

		if attempt >= q.MaxRetries {
			log.WithError(err).Errorf("dropping payload after %d retries", q.MaxRetries)
			return
		}

		log.WithError(err).Warnf("delivery failed, retry %d of %d", attempt+1, q.MaxRetries)
		time.Sleep(time.Duration(attempt+1) * q.Backoff)
	}
}

// Subscribe registers handler for every later Publish on topic.
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	if handler == nil {
		return fmt.Errorf("nil handler for topic %s", topic)
	}

	q.mu.Lock()
	q.handlers[topic] = append(q.handlers[topic], handler)
	q.mu.Unlock()

	return nil
}

// Wait blocks until every job published so far has been handled or dropped.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
