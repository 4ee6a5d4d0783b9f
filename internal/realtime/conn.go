package realtime

import (
	"errors"
	"sync"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/google/uuid"
)

var (
	ErrSlowConsumer = errors.New("send buffer full")
	ErrClosed       = errors.New("connection closed")
)

// Conn is a live, authenticated connection as seen by the registry and the
// dispatcher. Send must never block.
type Conn interface {
	ID() string
	Principal() models.Principal
	Send(ev Event) error
	Close()
}

// outbox is the transport-independent half of a connection: a bounded queue
// drained by the transport's writer.
type outbox struct {
	id        string
	principal models.Principal
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newOutbox(principal models.Principal, size int) *outbox {
	if size < 1 {
		size = 1
	}

	return &outbox{
		id:        uuid.NewString(),
		principal: principal,
		send:      make(chan Event, size),
		done:      make(chan struct{}),
	}
}

func (o *outbox) ID() string                  { return o.id }
func (o *outbox) Principal() models.Principal { return o.principal }

func (o *outbox) Send(ev Event) error {
	select {
	case <-o.done:
		return ErrClosed
	default:
	}

	select {
	case o.send <- ev:
		return nil
	case <-o.done:
		return ErrClosed
	default:
		return ErrSlowConsumer
	}
}

func (o *outbox) Close() {
	o.closeOnce.Do(func() { close(o.done) })
}

// drain empties the queue without blocking. Writers flush it after Close so
// events accepted before shutdown still go out.
func (o *outbox) drain() []Event {
	var pending []Event
	for {
		select {
		case ev := <-o.send:
			pending = append(pending, ev)
		default:
			return pending
		}
	}
}
