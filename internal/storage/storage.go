package storage

import (
	"context"
	"errors"

	"github.com/14kear/livepoll/internal/domain/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrPollNotFound      = errors.New("poll not found")
	ErrOptionNotFound    = errors.New("option not found")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrVoteAlreadyExists = errors.New("vote already exists")
)

// VoteTx is the set of reads and writes the vote ledger performs inside a single
// store transaction. Implementations must roll back everything if the enclosing
// function returns an error.
type VoteTx interface {
	// LockPoll reads the poll and holds a shared lock on its row until the
	// transaction ends, so a concurrent publish flag change cannot interleave.
	LockPoll(ctx context.Context, pollID int64) (models.Poll, error)
	Option(ctx context.Context, optionID int64) (models.PollOption, error)
	VoteByUserOption(ctx context.Context, userID, optionID int64) (models.Vote, error)
	VoteByUserPoll(ctx context.Context, userID, pollID int64) (models.Vote, error)
	InsertVote(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error)
	UpdateVoteOption(ctx context.Context, voteID, optionID int64) (models.Vote, error)
	DeleteVote(ctx context.Context, voteID int64) error
}

// DeletedUser lists the polls touched when a user is removed.
type DeletedUser struct {
	// AuthoredPolls were deleted along with the user.
	AuthoredPolls []int64
	// VotedPolls belong to other authors and lost the user's vote.
	VotedPolls []int64
}

// PollUpdate is a partial poll change; nil fields keep the stored value.
type PollUpdate struct {
	Question    *string
	IsPublished *bool
}

// PollFilter narrows poll listings.
type PollFilter struct {
	AuthorID      int64
	PublishedOnly bool
	Limit         int
	Offset        int
}
