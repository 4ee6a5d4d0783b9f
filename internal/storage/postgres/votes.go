package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/storage"
	"github.com/jmoiron/sqlx"
)

const voteColumns = `id, user_id, poll_id, poll_option_id, created_at, updated_at`

// InVoteTx runs fn inside one transaction and commits only if fn returns nil.
// Errors returned by fn are passed through untouched.
func (s *Storage) InVoteTx(ctx context.Context, fn func(tx storage.VoteTx) error) error {
	const op = "storage.postgres.InVoteTx"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&voteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// OptionCounts returns the poll and per-option vote counts read from one snapshot.
func (s *Storage) OptionCounts(ctx context.Context, pollID int64) (models.Poll, []models.OptionTally, error) {
	const op = "storage.postgres.OptionCounts"

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return models.Poll{}, nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var poll models.Poll
	if err := tx.GetContext(ctx, &poll, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, pollID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Poll{}, nil, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
		}
		return models.Poll{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT o.id, o.text, COUNT(v.id) AS vote_count
		FROM poll_options o
		LEFT JOIN votes v ON v.poll_option_id = o.id
		WHERE o.poll_id = $1
		GROUP BY o.id, o.text
		ORDER BY o.id`

	var counts []models.OptionTally
	if err := tx.SelectContext(ctx, &counts, query, pollID); err != nil {
		return models.Poll{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return poll, counts, nil
}

// VoteByUserPoll reads the user's vote in a poll outside of any ledger transaction.
func (s *Storage) VoteByUserPoll(ctx context.Context, userID, pollID int64) (models.Vote, error) {
	return getVote(ctx, s.db, "storage.postgres.VoteByUserPoll",
		`SELECT `+voteColumns+` FROM votes WHERE user_id = $1 AND poll_id = $2`, userID, pollID)
}

type voteTx struct {
	tx *sqlx.Tx
}

func (t *voteTx) LockPoll(ctx context.Context, pollID int64) (models.Poll, error) {
	const op = "storage.postgres.LockPoll"

	var poll models.Poll
	if err := t.tx.GetContext(ctx, &poll, `SELECT `+pollColumns+` FROM polls WHERE id = $1 FOR SHARE`, pollID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Poll{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
		}
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	return poll, nil
}

func (t *voteTx) Option(ctx context.Context, optionID int64) (models.PollOption, error) {
	const op = "storage.postgres.Option"

	var option models.PollOption
	if err := t.tx.GetContext(ctx, &option, `SELECT id, poll_id, text, created_at FROM poll_options WHERE id = $1`, optionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.PollOption{}, fmt.Errorf("%s: %w", op, storage.ErrOptionNotFound)
		}
		return models.PollOption{}, fmt.Errorf("%s: %w", op, err)
	}

	return option, nil
}

func (t *voteTx) VoteByUserOption(ctx context.Context, userID, optionID int64) (models.Vote, error) {
	return getVote(ctx, t.tx, "storage.postgres.VoteByUserOption",
		`SELECT `+voteColumns+` FROM votes WHERE user_id = $1 AND poll_option_id = $2 FOR UPDATE`, userID, optionID)
}

func (t *voteTx) VoteByUserPoll(ctx context.Context, userID, pollID int64) (models.Vote, error) {
	return getVote(ctx, t.tx, "storage.postgres.VoteByUserPoll",
		`SELECT `+voteColumns+` FROM votes WHERE user_id = $1 AND poll_id = $2 FOR UPDATE`, userID, pollID)
}

func (t *voteTx) InsertVote(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error) {
	const op = "storage.postgres.InsertVote"

	query := `INSERT INTO votes (user_id, poll_id, poll_option_id) VALUES ($1, $2, $3) RETURNING ` + voteColumns

	var vote models.Vote
	if err := t.tx.GetContext(ctx, &vote, query, userID, pollID, optionID); err != nil {
		switch pqCode(err) {
		case codeUniqueViolation:
			return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrVoteAlreadyExists)
		case codeForeignKeyViolation:
			// poll and option rows are locked by this transaction, so only the user can be gone
			return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	return vote, nil
}

func (t *voteTx) UpdateVoteOption(ctx context.Context, voteID, optionID int64) (models.Vote, error) {
	const op = "storage.postgres.UpdateVoteOption"

	query := `UPDATE votes SET poll_option_id = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + voteColumns

	var vote models.Vote
	if err := t.tx.GetContext(ctx, &vote, query, optionID, voteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrVoteNotFound)
		}
		if pqCode(err) == codeUniqueViolation {
			return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrVoteAlreadyExists)
		}
		return models.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	return vote, nil
}

func (t *voteTx) DeleteVote(ctx context.Context, voteID int64) error {
	const op = "storage.postgres.DeleteVote"

	res, err := t.tx.ExecContext(ctx, `DELETE FROM votes WHERE id = $1`, voteID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrVoteNotFound)
	}

	return nil
}

func getVote(ctx context.Context, q sqlx.QueryerContext, op, query string, args ...any) (models.Vote, error) {
	var vote models.Vote
	if err := sqlx.GetContext(ctx, q, &vote, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vote{}, fmt.Errorf("%s: %w", op, storage.ErrVoteNotFound)
		}
		return models.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	return vote, nil
}
