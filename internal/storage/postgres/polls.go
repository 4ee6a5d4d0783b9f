package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pollColumns = `id, author_id, question, is_published, created_at, updated_at`

// SavePoll inserts the poll and its options in one transaction.
func (s *Storage) SavePoll(ctx context.Context, authorID int64, question string, isPublished bool, options []string) (models.Poll, error) {
	const op = "storage.postgres.SavePoll"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var poll models.Poll
	query := `INSERT INTO polls (author_id, question, is_published) VALUES ($1, $2, $3) RETURNING ` + pollColumns
	if err := tx.GetContext(ctx, &poll, query, authorID, question, isPublished); err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return models.Poll{}, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	optionQuery := `INSERT INTO poll_options (poll_id, text) VALUES ($1, $2) RETURNING id, poll_id, text, created_at`
	poll.Options = make([]models.PollOption, 0, len(options))
	for _, text := range options {
		var option models.PollOption
		if err := tx.GetContext(ctx, &option, optionQuery, poll.ID, text); err != nil {
			return models.Poll{}, fmt.Errorf("%s: option: %w", op, err)
		}
		poll.Options = append(poll.Options, option)
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("%s: commit: %w", op, err)
	}

	return poll, nil
}

func (s *Storage) PollByID(ctx context.Context, id int64) (models.Poll, error) {
	const op = "storage.postgres.PollByID"

	var poll models.Poll
	query := `SELECT ` + pollColumns + ` FROM polls WHERE id = $1`
	if err := s.db.GetContext(ctx, &poll, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Poll{}, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
		}
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	options, err := s.optionsByPollIDs(ctx, s.db, []int64{poll.ID})
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	poll.Options = options[poll.ID]

	return poll, nil
}

func (s *Storage) Polls(ctx context.Context, filter storage.PollFilter) ([]models.Poll, error) {
	const op = "storage.postgres.Polls"

	query := `SELECT ` + pollColumns + ` FROM polls
		WHERE ($1 = 0 OR author_id = $1) AND (NOT $2 OR is_published)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	var polls []models.Poll
	if err := s.db.SelectContext(ctx, &polls, query, filter.AuthorID, filter.PublishedOnly, filter.Limit, filter.Offset); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(polls) == 0 {
		return []models.Poll{}, nil
	}

	ids := make([]int64, len(polls))
	for i, p := range polls {
		ids[i] = p.ID
	}

	options, err := s.optionsByPollIDs(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range polls {
		polls[i].Options = options[polls[i].ID]
	}

	return polls, nil
}

// UpdatePoll applies a partial change under a row lock and reports the publish
// flag the poll had before it.
func (s *Storage) UpdatePoll(ctx context.Context, id int64, upd storage.PollUpdate) (models.Poll, bool, error) {
	const op = "storage.postgres.UpdatePoll"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Poll{}, false, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var wasPublished bool
	if err := tx.GetContext(ctx, &wasPublished, `SELECT is_published FROM polls WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Poll{}, false, fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
		}
		return models.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}

	var poll models.Poll
	query := `UPDATE polls
		SET question = COALESCE($1, question),
			is_published = COALESCE($2, is_published),
			updated_at = NOW()
		WHERE id = $3
		RETURNING ` + pollColumns
	if err := tx.GetContext(ctx, &poll, query, upd.Question, upd.IsPublished, id); err != nil {
		return models.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}

	options, err := s.optionsByPollIDs(ctx, tx, []int64{poll.ID})
	if err != nil {
		return models.Poll{}, false, fmt.Errorf("%s: %w", op, err)
	}
	poll.Options = options[poll.ID]

	if err := tx.Commit(); err != nil {
		return models.Poll{}, false, fmt.Errorf("%s: commit: %w", op, err)
	}

	return poll, wasPublished, nil
}

func (s *Storage) DeletePoll(ctx context.Context, id int64) error {
	const op = "storage.postgres.DeletePoll"

	res, err := s.db.ExecContext(ctx, `DELETE FROM polls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrPollNotFound)
	}

	return nil
}

func (s *Storage) optionsByPollIDs(ctx context.Context, q sqlx.QueryerContext, ids []int64) (map[int64][]models.PollOption, error) {
	query := `SELECT id, poll_id, text, created_at FROM poll_options WHERE poll_id = ANY($1) ORDER BY id`

	var options []models.PollOption
	if err := sqlx.SelectContext(ctx, q, &options, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	byPoll := make(map[int64][]models.PollOption, len(ids))
	for _, o := range options {
		byPoll[o.PollID] = append(byPoll[o.PollID], o)
	}
	return byPoll, nil
}
