package votes

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/logger"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/services/votes/mocks"
	"github.com/14kear/livepoll/internal/storage"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemLedger() (*Ledger, *Aggregator, *memStore, *recorder) {
	st := newMemStore()
	rec := &recorder{}
	log := logger.NewDiscard()
	return NewLedger(log, st, rec), NewAggregator(log, st), st, rec
}

func TestLedger_Scenario(t *testing.T) {
	ctx := context.Background()
	ledger, agg, st, rec := newMemLedger()

	poll := st.addPoll(true, "A", "B")
	a, b := poll.Options[0].ID, poll.Options[1].ID

	tally := func() map[int64][2]int64 {
		t.Helper()
		got, err := agg.ComputeTally(ctx, poll.ID)
		require.NoError(t, err)
		out := make(map[int64][2]int64, len(got.Options))
		for _, o := range got.Options {
			out[o.ID] = [2]int64{o.VoteCount, int64(o.Percentage)}
		}
		out[0] = [2]int64{got.TotalVotes, 0}
		return out
	}

	_, err := ledger.Cast(ctx, 1, poll.ID, a)
	require.NoError(t, err)
	assert.Equal(t, map[int64][2]int64{a: {1, 100}, b: {0, 0}, 0: {1, 0}}, tally())

	_, err = ledger.Cast(ctx, 2, poll.ID, b)
	require.NoError(t, err)
	assert.Equal(t, map[int64][2]int64{a: {1, 50}, b: {1, 50}, 0: {2, 0}}, tally())

	vote, err := ledger.Change(ctx, 1, poll.ID, b)
	require.NoError(t, err)
	assert.Equal(t, b, vote.PollOptionID)
	assert.Equal(t, map[int64][2]int64{a: {0, 0}, b: {2, 100}, 0: {2, 0}}, tally())

	assert.Equal(t, []int64{poll.ID, poll.ID, poll.ID}, rec.calls())
}

func TestLedger_Cast_Duplicate(t *testing.T) {
	ctx := context.Background()
	ledger, _, st, rec := newMemLedger()

	poll := st.addPoll(true, "A", "B")

	_, err := ledger.Cast(ctx, 1, poll.ID, poll.Options[0].ID)
	require.NoError(t, err)

	_, err = ledger.Cast(ctx, 1, poll.ID, poll.Options[0].ID)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.ErrorIs(t, err, services.ErrConflict)

	_, err = ledger.Cast(ctx, 1, poll.ID, poll.Options[1].ID)
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	assert.Len(t, rec.calls(), 1)
}

func TestLedger_Cast_Rejections(t *testing.T) {
	ctx := context.Background()
	ledger, _, st, rec := newMemLedger()

	published := st.addPoll(true, "A", "B")
	draft := st.addPoll(false, "C", "D")

	tests := []struct {
		name     string
		pollID   int64
		optionID int64
		want     error
		kind     error
	}{
		{"poll missing", 999, published.Options[0].ID, ErrPollNotFound, services.ErrNotFound},
		{"option missing", published.ID, 999, ErrOptionNotFound, services.ErrNotFound},
		{"unpublished", draft.ID, draft.Options[0].ID, ErrPollNotPublished, services.ErrConflict},
		{"unpublished with foreign option", draft.ID, published.Options[0].ID, ErrPollNotPublished, services.ErrConflict},
		{"option from another poll", published.ID, draft.Options[0].ID, ErrOptionNotInPoll, services.ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.Cast(ctx, 1, tt.pollID, tt.optionID)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	assert.Empty(t, rec.calls())
}

func TestLedger_Cast_Concurrent(t *testing.T) {
	ctx := context.Background()
	ledger, agg, st, _ := newMemLedger()

	poll := st.addPoll(true, "A", "B")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ledger.Cast(ctx, 7, poll.ID, poll.Options[0].ID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	tally, err := agg.ComputeTally(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.TotalVotes)
}

func TestLedger_Change(t *testing.T) {
	ctx := context.Background()
	ledger, _, st, rec := newMemLedger()

	poll := st.addPoll(true, "A", "B")
	other := st.addPoll(true, "C", "D")
	a, b := poll.Options[0].ID, poll.Options[1].ID

	t.Run("no vote yet", func(t *testing.T) {
		_, err := ledger.Change(ctx, 1, poll.ID, b)
		assert.ErrorIs(t, err, ErrVoteNotFound)
		assert.ErrorIs(t, err, services.ErrNotFound)
	})

	_, err := ledger.Cast(ctx, 1, poll.ID, a)
	require.NoError(t, err)

	t.Run("option from another poll", func(t *testing.T) {
		_, err := ledger.Change(ctx, 1, poll.ID, other.Options[0].ID)
		assert.ErrorIs(t, err, ErrOptionNotInPoll)
	})

	t.Run("same option is a no-op", func(t *testing.T) {
		before := len(rec.calls())
		vote, err := ledger.Change(ctx, 1, poll.ID, a)
		require.NoError(t, err)
		assert.Equal(t, a, vote.PollOptionID)
		assert.Len(t, rec.calls(), before)
	})

	t.Run("moves the vote", func(t *testing.T) {
		vote, err := ledger.Change(ctx, 1, poll.ID, b)
		require.NoError(t, err)
		assert.Equal(t, b, vote.PollOptionID)

		mine, err := ledger.MyVote(ctx, 1, poll.ID)
		require.NoError(t, err)
		assert.Equal(t, b, mine.PollOptionID)
	})
}

func TestLedger_Retract(t *testing.T) {
	ctx := context.Background()
	ledger, _, st, rec := newMemLedger()

	poll := st.addPoll(true, "A", "B")
	a := poll.Options[0].ID

	err := ledger.Retract(ctx, 1, a)
	assert.ErrorIs(t, err, ErrVoteNotFound)

	_, err = ledger.Cast(ctx, 1, poll.ID, a)
	require.NoError(t, err)

	require.NoError(t, ledger.Retract(ctx, 1, a))

	err = ledger.Retract(ctx, 1, a)
	assert.ErrorIs(t, err, ErrVoteNotFound)

	_, err = ledger.MyVote(ctx, 1, poll.ID)
	assert.ErrorIs(t, err, ErrVoteNotFound)

	assert.Equal(t, []int64{poll.ID, poll.ID}, rec.calls())
}

func TestLedger_NoNotifyOnStorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	tx := mocks.NewMockVoteTx(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	ledger := NewLedger(logger.NewDiscard(), st, notifier)

	dbErr := errors.New("connection reset")

	st.EXPECT().
		InVoteTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(storage.VoteTx) error) error {
			return fn(tx)
		})
	tx.EXPECT().LockPoll(gomock.Any(), int64(1)).Return(models.Poll{ID: 1, IsPublished: true}, nil)
	tx.EXPECT().Option(gomock.Any(), int64(2)).Return(models.PollOption{ID: 2, PollID: 1}, nil)
	tx.EXPECT().VoteByUserPoll(gomock.Any(), int64(3), int64(1)).Return(models.Vote{}, storage.ErrVoteNotFound)
	tx.EXPECT().InsertVote(gomock.Any(), int64(3), int64(1), int64(2)).Return(models.Vote{}, dbErr)

	_, err := ledger.Cast(context.Background(), 3, 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)

	var svcErr *services.Error
	assert.False(t, errors.As(err, &svcErr))
}

func TestLedger_Cast_UniqueViolationBackstop(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	tx := mocks.NewMockVoteTx(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	ledger := NewLedger(logger.NewDiscard(), st, notifier)

	st.EXPECT().
		InVoteTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(storage.VoteTx) error) error {
			return fn(tx)
		})
	tx.EXPECT().LockPoll(gomock.Any(), int64(1)).Return(models.Poll{ID: 1, IsPublished: true}, nil)
	tx.EXPECT().Option(gomock.Any(), int64(2)).Return(models.PollOption{ID: 2, PollID: 1}, nil)
	tx.EXPECT().VoteByUserPoll(gomock.Any(), int64(3), int64(1)).Return(models.Vote{}, storage.ErrVoteNotFound)
	tx.EXPECT().InsertVote(gomock.Any(), int64(3), int64(1), int64(2)).Return(models.Vote{}, storage.ErrVoteAlreadyExists)

	_, err := ledger.Cast(context.Background(), 3, 1, 2)
	assert.ErrorIs(t, err, ErrAlreadyVoted)
}

func TestLedger_Cast_NotifiesAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockStorage(ctrl)
	tx := mocks.NewMockVoteTx(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)

	ledger := NewLedger(logger.NewDiscard(), st, notifier)

	committed := false
	st.EXPECT().
		InVoteTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(storage.VoteTx) error) error {
			if err := fn(tx); err != nil {
				return err
			}
			committed = true
			return nil
		})
	tx.EXPECT().LockPoll(gomock.Any(), int64(1)).Return(models.Poll{ID: 1, IsPublished: true}, nil)
	tx.EXPECT().Option(gomock.Any(), int64(2)).Return(models.PollOption{ID: 2, PollID: 1}, nil)
	tx.EXPECT().VoteByUserPoll(gomock.Any(), int64(3), int64(1)).Return(models.Vote{}, storage.ErrVoteNotFound)
	tx.EXPECT().InsertVote(gomock.Any(), int64(3), int64(1), int64(2)).Return(models.Vote{ID: 9, PollID: 1}, nil)
	notifier.EXPECT().NotifyVoteChange(int64(1)).Do(func(int64) {
		assert.True(t, committed)
	})

	vote, err := ledger.Cast(context.Background(), 3, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(9), vote.ID)
}
