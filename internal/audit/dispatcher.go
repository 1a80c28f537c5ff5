package audit

import (
	"go.uber.org/zap"
)

type Event struct {
	UserID int64
	Event  string
	Data   string
}

// Dispatcher decouples event logging from the request path: events go
// through a buffered queue into a single worker, and are dropped (never
// blocking the caller) when the queue is full.
type Dispatcher struct {
	logger *Logger
	log    *zap.Logger
	queue  chan Event
}

func NewDispatcher(logger *Logger, log *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		log:    log,
		queue:  make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.logger.Log(ev.UserID, ev.Event, ev.Data); err != nil {
			d.log.Warn("audit write failed", zap.String("event", ev.Event), zap.Error(err))
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("event", ev.Event))
	}
}
