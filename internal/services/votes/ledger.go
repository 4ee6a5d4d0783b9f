package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

var (
	ErrPollNotFound     = services.NewError(services.ErrNotFound, "poll not found")
	ErrOptionNotFound   = services.NewError(services.ErrNotFound, "poll option not found")
	ErrVoteNotFound     = services.NewError(services.ErrNotFound, "vote not found")
	ErrPollNotPublished = services.NewError(services.ErrConflict, "poll is not published")
	ErrOptionNotInPoll  = services.NewError(services.ErrConflict, "option does not belong to this poll")
	ErrAlreadyVoted     = services.NewError(services.ErrConflict, "you have already voted in this poll")
	ErrUnknownVoter     = services.NewError(services.ErrUnauthorized, "user no longer exists")
)

//go:generate mockgen -source=ledger.go -destination=mocks/mock_ledger.go -package=mocks

type Storage interface {
	InVoteTx(ctx context.Context, fn func(tx storage.VoteTx) error) error
	VoteByUserPoll(ctx context.Context, userID, pollID int64) (models.Vote, error)
}

// Notifier is told about every committed vote mutation.
type Notifier interface {
	NotifyVoteChange(pollID int64)
}

// Ledger performs vote mutations. Every check and the write happen inside one
// store transaction; the notifier is called only after that transaction commits.
type Ledger struct {
	log      *slog.Logger
	storage  Storage
	notifier Notifier
}

func NewLedger(log *slog.Logger, storage Storage, notifier Notifier) *Ledger {
	return &Ledger{
		log:      log,
		storage:  storage,
		notifier: notifier,
	}
}

// Cast records a new vote. A user holds at most one vote per poll.
func (l *Ledger) Cast(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error) {
	const op = "votes.Ledger.Cast"

	log := l.log.With(
		slog.String("op", op),
		slog.Int64("uid", userID),
		slog.Int64("poll_id", pollID),
		slog.Int64("option_id", optionID),
	)

	var vote models.Vote
	err := l.storage.InVoteTx(ctx, func(tx storage.VoteTx) error {
		if err := checkTarget(ctx, tx, pollID, optionID); err != nil {
			return err
		}

		_, err := tx.VoteByUserPoll(ctx, userID, pollID)
		switch {
		case err == nil:
			return ErrAlreadyVoted
		case !errors.Is(err, storage.ErrVoteNotFound):
			return err
		}

		vote, err = tx.InsertVote(ctx, userID, pollID, optionID)
		return err
	})
	if err != nil {
		return models.Vote{}, fmt.Errorf("%s: %w", op, l.domainErr(log, err))
	}

	log.Info("vote cast", slog.Int64("vote_id", vote.ID))
	l.notifier.NotifyVoteChange(pollID)

	return vote, nil
}

// Change moves the user's vote in pollID to optionID. Moving to the option
// already held returns the vote as is and does not notify.
func (l *Ledger) Change(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error) {
	const op = "votes.Ledger.Change"

	log := l.log.With(
		slog.String("op", op),
		slog.Int64("uid", userID),
		slog.Int64("poll_id", pollID),
		slog.Int64("option_id", optionID),
	)

	var (
		vote    models.Vote
		changed bool
	)
	err := l.storage.InVoteTx(ctx, func(tx storage.VoteTx) error {
		if err := checkTarget(ctx, tx, pollID, optionID); err != nil {
			return err
		}

		current, err := tx.VoteByUserPoll(ctx, userID, pollID)
		if err != nil {
			return err
		}

		if current.PollOptionID == optionID {
			vote = current
			return nil
		}

		vote, err = tx.UpdateVoteOption(ctx, current.ID, optionID)
		if err != nil {
			return err
		}
		changed = true

		return nil
	})
	if err != nil {
		return models.Vote{}, fmt.Errorf("%s: %w", op, l.domainErr(log, err))
	}

	if !changed {
		log.Debug("vote already on target option")
		return vote, nil
	}

	log.Info("vote changed", slog.Int64("vote_id", vote.ID))
	l.notifier.NotifyVoteChange(pollID)

	return vote, nil
}

// Retract deletes the user's vote for optionID.
func (l *Ledger) Retract(ctx context.Context, userID, optionID int64) error {
	const op = "votes.Ledger.Retract"

	log := l.log.With(
		slog.String("op", op),
		slog.Int64("uid", userID),
		slog.Int64("option_id", optionID),
	)

	var pollID int64
	err := l.storage.InVoteTx(ctx, func(tx storage.VoteTx) error {
		vote, err := tx.VoteByUserOption(ctx, userID, optionID)
		if err != nil {
			return err
		}

		if err := tx.DeleteVote(ctx, vote.ID); err != nil {
			return err
		}
		pollID = vote.PollID

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, l.domainErr(log, err))
	}

	log.Info("vote retracted", slog.Int64("poll_id", pollID))
	l.notifier.NotifyVoteChange(pollID)

	return nil
}

// MyVote returns the user's current vote in a poll.
func (l *Ledger) MyVote(ctx context.Context, userID, pollID int64) (models.Vote, error) {
	const op = "votes.Ledger.MyVote"

	vote, err := l.storage.VoteByUserPoll(ctx, userID, pollID)
	if err != nil {
		return models.Vote{}, fmt.Errorf("%s: %w", op, l.domainErr(l.log.With(slog.String("op", op)), err))
	}

	return vote, nil
}

func checkTarget(ctx context.Context, tx storage.VoteTx, pollID, optionID int64) error {
	poll, err := tx.LockPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.IsPublished {
		return ErrPollNotPublished
	}

	option, err := tx.Option(ctx, optionID)
	if err != nil {
		return err
	}
	if option.PollID != pollID {
		return ErrOptionNotInPoll
	}

	return nil
}

// domainErr translates storage sentinels into service errors. Anything it does
// not recognise is an internal failure and gets logged here.
func (l *Ledger) domainErr(log *slog.Logger, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrPollNotFound):
		return ErrPollNotFound
	case errors.Is(err, storage.ErrOptionNotFound):
		return ErrOptionNotFound
	case errors.Is(err, storage.ErrVoteNotFound):
		return ErrVoteNotFound
	case errors.Is(err, storage.ErrVoteAlreadyExists):
		return ErrAlreadyVoted
	case errors.Is(err, storage.ErrUserNotFound):
		return ErrUnknownVoter
	}

	log.Error("vote transaction failed", sl.Err(err))

	return err
}
