package audit

import (
	"log"
	"sync"
)

type Event struct {
	UserID     uint
	Username   string
	ActionType string
	Details    string
}

// Dispatcher decouples audit persistence from the request path. Dispatch
// never blocks and never returns an error: a failed or dropped audit write
// must not abort the business operation that triggered it.
type Dispatcher struct {
	logger *Logger
	queue  chan Event

	wg sync.WaitGroup
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		if err := d.logger.Log(ev.UserID, ev.Username, ev.ActionType, ev.Details); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// Queue full: drop the entry rather than stall the API.
		log.Println("audit queue full, dropping event")
	}
}

// Close drains the queue and stops the worker. Used on shutdown and in
// tests that assert on written entries.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}
