package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/services"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const defaultBroadcastTimeout = 5 * time.Second

type TallyComputer interface {
	ComputeTally(ctx context.Context, pollID int64) (models.Tally, error)
}

// Dispatcher pushes fresh tallies and poll changes to every connection in a
// poll's room. Delivery is best effort: one failing connection never affects
// the others, and nothing is reported back to the caller.
type Dispatcher struct {
	log     *slog.Logger
	rooms   *Registry
	tally   TallyComputer
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *slog.Logger, rooms *Registry, tally TallyComputer, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultBroadcastTimeout
	}

	return &Dispatcher{
		log:     log,
		rooms:   rooms,
		tally:   tally,
		timeout: timeout,
		now:     time.Now,
	}
}

// NotifyVoteChange recomputes the tally for pollID in the background and fans
// it out. It returns immediately and is a no-op for an empty room.
func (d *Dispatcher) NotifyVoteChange(pollID int64) {
	if !d.rooms.HasMembers(pollID) {
		return
	}

	if !d.track() {
		return
	}

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		d.broadcastTally(ctx, pollID)
	}()
}

// NotifyPollChange fans out a poll-update event. Sends never block, so this
// runs on the caller's goroutine.
func (d *Dispatcher) NotifyPollChange(pollID int64, kind string, data any) {
	d.fanOut(pollID, Event{
		Name: EventPollUpdate,
		Data: PollUpdate{
			PollID:     pollID,
			UpdateType: kind,
			Data:       data,
			Timestamp:  d.now().UTC(),
		},
	})
}

// Close stops accepting new broadcasts and waits for in-flight ones until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) track() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return false
	}
	d.wg.Add(1)

	return true
}

func (d *Dispatcher) broadcastTally(ctx context.Context, pollID int64) {
	const op = "realtime.Dispatcher.broadcastTally"

	log := d.log.With(slog.String("op", op), slog.Int64("poll_id", pollID))

	tally, err := d.tally.ComputeTally(ctx, pollID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			log.Debug("poll is gone, skipping broadcast")
			return
		}
		log.Warn("failed to compute tally", sl.Err(err))
		return
	}

	d.fanOut(pollID, Event{
		Name: EventVoteUpdate,
		Data: VoteUpdate{Tally: tally, Timestamp: d.now().UTC()},
	})
}

func (d *Dispatcher) fanOut(pollID int64, ev Event) int {
	members := d.rooms.MembersOf(pollID)
	if len(members) == 0 {
		return 0
	}

	delivered := 0
	for _, c := range members {
		if err := c.Send(ev); err != nil {
			d.log.Warn("event dropped",
				slog.String("event", ev.Name),
				slog.Int64("poll_id", pollID),
				slog.String("conn_id", c.ID()),
				sl.Err(err),
			)
			continue
		}
		delivered++
	}

	d.log.Debug("event broadcast",
		slog.String("event", ev.Name),
		slog.Int64("poll_id", pollID),
		slog.Int("delivered", delivered),
		slog.Int("members", len(members)),
	)

	return delivered
}
