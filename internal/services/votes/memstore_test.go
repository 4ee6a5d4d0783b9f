package votes

import (
	"context"
	"sync"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/storage"
)

// memStore is an in-memory store with the same uniqueness rules as the schema.
// Transactions run under one lock and work on a copy of the vote set that is
// swapped in only when fn succeeds.
type memStore struct {
	mu      sync.Mutex
	polls   map[int64]models.Poll
	options map[int64]models.PollOption
	votes   map[int64]models.Vote
	nextID  int64
}

func newMemStore() *memStore {
	return &memStore{
		polls:   make(map[int64]models.Poll),
		options: make(map[int64]models.PollOption),
		votes:   make(map[int64]models.Vote),
	}
}

func (s *memStore) addPoll(published bool, texts ...string) models.Poll {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	poll := models.Poll{ID: s.nextID, Question: "Which one?", IsPublished: published}
	for _, text := range texts {
		s.nextID++
		o := models.PollOption{ID: s.nextID, PollID: poll.ID, Text: text}
		s.options[o.ID] = o
		poll.Options = append(poll.Options, o)
	}
	s.polls[poll.ID] = poll

	return poll
}

func (s *memStore) InVoteTx(_ context.Context, fn func(tx storage.VoteTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, votes: make(map[int64]models.Vote, len(s.votes))}
	for id, v := range s.votes {
		tx.votes[id] = v
	}

	if err := fn(tx); err != nil {
		return err
	}
	s.votes = tx.votes

	return nil
}

func (s *memStore) VoteByUserPoll(_ context.Context, userID, pollID int64) (models.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.votes {
		if v.UserID == userID && v.PollID == pollID {
			return v, nil
		}
	}
	return models.Vote{}, storage.ErrVoteNotFound
}

func (s *memStore) OptionCounts(_ context.Context, pollID int64) (models.Poll, []models.OptionTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[pollID]
	if !ok {
		return models.Poll{}, nil, storage.ErrPollNotFound
	}

	out := make([]models.OptionTally, 0, len(poll.Options))
	for _, o := range poll.Options {
		t := models.OptionTally{ID: o.ID, Text: o.Text}
		for _, v := range s.votes {
			if v.PollOptionID == o.ID {
				t.VoteCount++
			}
		}
		out = append(out, t)
	}

	return poll, out, nil
}

type memTx struct {
	store *memStore
	votes map[int64]models.Vote
}

func (t *memTx) LockPoll(_ context.Context, pollID int64) (models.Poll, error) {
	poll, ok := t.store.polls[pollID]
	if !ok {
		return models.Poll{}, storage.ErrPollNotFound
	}
	return poll, nil
}

func (t *memTx) Option(_ context.Context, optionID int64) (models.PollOption, error) {
	o, ok := t.store.options[optionID]
	if !ok {
		return models.PollOption{}, storage.ErrOptionNotFound
	}
	return o, nil
}

func (t *memTx) find(match func(models.Vote) bool) (models.Vote, error) {
	for _, v := range t.votes {
		if match(v) {
			return v, nil
		}
	}
	return models.Vote{}, storage.ErrVoteNotFound
}

func (t *memTx) VoteByUserOption(_ context.Context, userID, optionID int64) (models.Vote, error) {
	return t.find(func(v models.Vote) bool { return v.UserID == userID && v.PollOptionID == optionID })
}

func (t *memTx) VoteByUserPoll(_ context.Context, userID, pollID int64) (models.Vote, error) {
	return t.find(func(v models.Vote) bool { return v.UserID == userID && v.PollID == pollID })
}

func (t *memTx) InsertVote(_ context.Context, userID, pollID, optionID int64) (models.Vote, error) {
	if _, err := t.find(func(v models.Vote) bool {
		return v.UserID == userID && (v.PollID == pollID || v.PollOptionID == optionID)
	}); err == nil {
		return models.Vote{}, storage.ErrVoteAlreadyExists
	}

	t.store.nextID++
	v := models.Vote{ID: t.store.nextID, UserID: userID, PollID: pollID, PollOptionID: optionID}
	t.votes[v.ID] = v

	return v, nil
}

func (t *memTx) UpdateVoteOption(_ context.Context, voteID, optionID int64) (models.Vote, error) {
	v, ok := t.votes[voteID]
	if !ok {
		return models.Vote{}, storage.ErrVoteNotFound
	}
	v.PollOptionID = optionID
	t.votes[voteID] = v

	return v, nil
}

func (t *memTx) DeleteVote(_ context.Context, voteID int64) error {
	if _, ok := t.votes[voteID]; !ok {
		return storage.ErrVoteNotFound
	}
	delete(t.votes, voteID)

	return nil
}

// recorder collects NotifyVoteChange calls.
type recorder struct {
	mu    sync.Mutex
	polls []int64
}

func (r *recorder) NotifyVoteChange(pollID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.polls = append(r.polls, pollID)
}

func (r *recorder) calls() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.polls...)
}
