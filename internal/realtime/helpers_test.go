package realtime

import (
	"context"
	"sync"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/services"
)

// fakeConn records what it was sent.
type fakeConn struct {
	id      string
	mu      sync.Mutex
	events  []Event
	sendErr error
	closed  bool
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (c *fakeConn) ID() string                  { return c.id }
func (c *fakeConn) Principal() models.Principal { return models.Principal{UserID: 1} }

func (c *fakeConn) Send(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sendErr != nil {
		return c.sendErr
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// staticAuth accepts tokens present in its map.
type staticAuth map[string]models.Principal

var errBadToken = services.NewError(services.ErrUnauthorized, "invalid or expired token")

func (a staticAuth) Authenticate(_ context.Context, token string) (models.Principal, error) {
	p, ok := a[token]
	if !ok {
		return models.Principal{}, errBadToken
	}
	return p, nil
}

// stubTally returns a fixed tally per poll and counts calls.
type stubTally struct {
	mu     sync.Mutex
	tally  map[int64]models.Tally
	err    error
	calls  int
	onCall func()
}

func (s *stubTally) ComputeTally(_ context.Context, pollID int64) (models.Tally, error) {
	s.mu.Lock()
	s.calls++
	onCall := s.onCall
	t, err := s.tally[pollID], s.err
	s.mu.Unlock()

	if onCall != nil {
		onCall()
	}
	return t, err
}

func (s *stubTally) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
