package polls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

const (
	MinOptions        = 2
	MaxOptions        = 20
	MaxQuestionLength = 500
	MaxOptionLength   = 200
	DefaultPageSize   = 10
	MaxPageSize       = 100
)

// Update kinds carried by poll-update events.
const (
	UpdatePublished   = "published"
	UpdateUnpublished = "unpublished"
	UpdateEdited      = "updated"
	UpdateDeleted     = "deleted"
)

var (
	ErrPollNotFound = services.NewError(services.ErrNotFound, "poll not found")
	ErrNotAuthor    = services.NewError(services.ErrForbidden, "only the poll author can modify this poll")
)

//go:generate mockgen -source=polls.go -destination=mocks/mock_polls.go -package=mocks

type PollStorage interface {
	SavePoll(ctx context.Context, authorID int64, question string, isPublished bool, options []string) (models.Poll, error)
	PollByID(ctx context.Context, id int64) (models.Poll, error)
	Polls(ctx context.Context, filter storage.PollFilter) ([]models.Poll, error)
	UpdatePoll(ctx context.Context, id int64, upd storage.PollUpdate) (models.Poll, bool, error)
	DeletePoll(ctx context.Context, id int64) error
}

// Notifier pushes non-vote poll changes to live subscribers.
type Notifier interface {
	NotifyPollChange(pollID int64, kind string, data any)
}

type Polls struct {
	log      *slog.Logger
	storage  PollStorage
	notifier Notifier
}

type CreateInput struct {
	Question    string
	Options     []string
	IsPublished bool
}

// UpdateInput holds optional changes; nil fields are left as they are.
type UpdateInput struct {
	Question    *string
	IsPublished *bool
}

func New(log *slog.Logger, storage PollStorage, notifier Notifier) *Polls {
	return &Polls{
		log:      log,
		storage:  storage,
		notifier: notifier,
	}
}

func (p *Polls) Create(ctx context.Context, authorID int64, in CreateInput) (models.Poll, error) {
	const op = "polls.Create"

	log := p.log.With(slog.String("op", op), slog.Int64("uid", authorID))

	question, err := normalizeQuestion(in.Question)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	options, err := normalizeOptions(in.Options)
	if err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	poll, err := p.storage.SavePoll(ctx, authorID, question, in.IsPublished, options)
	if err != nil {
		log.Error("failed to save poll", sl.Err(err))
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll created", slog.Int64("poll_id", poll.ID), slog.Bool("published", poll.IsPublished))

	return poll, nil
}

// Get returns a poll. Unpublished polls are only visible to their author.
func (p *Polls) Get(ctx context.Context, id, viewerID int64) (models.Poll, error) {
	const op = "polls.Get"

	poll, err := p.storage.PollByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return models.Poll{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	if !poll.IsPublished && poll.AuthorID != viewerID {
		return models.Poll{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
	}

	return poll, nil
}

func (p *Polls) ListPublished(ctx context.Context, page, limit int) ([]models.Poll, error) {
	const op = "polls.ListPublished"

	page, limit = normalizePage(page, limit)

	polls, err := p.storage.Polls(ctx, storage.PollFilter{
		PublishedOnly: true,
		Limit:         limit,
		Offset:        (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return polls, nil
}

func (p *Polls) ListByAuthor(ctx context.Context, authorID int64, page, limit int) ([]models.Poll, error) {
	const op = "polls.ListByAuthor"

	page, limit = normalizePage(page, limit)

	polls, err := p.storage.Polls(ctx, storage.PollFilter{
		AuthorID: authorID,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return polls, nil
}

// Update changes question text and/or publish flag. Only the author may do it.
func (p *Polls) Update(ctx context.Context, id, userID int64, in UpdateInput) (models.Poll, error) {
	const op = "polls.Update"

	log := p.log.With(slog.String("op", op), slog.Int64("poll_id", id), slog.Int64("uid", userID))

	if in.Question == nil && in.IsPublished == nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, services.Validation("nothing to update"))
	}

	upd := storage.PollUpdate{IsPublished: in.IsPublished}
	if in.Question != nil {
		question, err := normalizeQuestion(*in.Question)
		if err != nil {
			return models.Poll{}, fmt.Errorf("%s: %w", op, err)
		}
		upd.Question = &question
	}

	if _, err := p.owned(ctx, id, userID); err != nil {
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	poll, wasPublished, err := p.storage.UpdatePoll(ctx, id, upd)
	if err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return models.Poll{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		log.Error("failed to update poll", sl.Err(err))
		return models.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	kind := UpdateEdited
	switch {
	case !wasPublished && poll.IsPublished:
		kind = UpdatePublished
	case wasPublished && !poll.IsPublished:
		kind = UpdateUnpublished
	}

	log.Info("poll updated", slog.String("kind", kind))
	p.notifier.NotifyPollChange(poll.ID, kind, poll)

	return poll, nil
}

func (p *Polls) Delete(ctx context.Context, id, userID int64) error {
	const op = "polls.Delete"

	log := p.log.With(slog.String("op", op), slog.Int64("poll_id", id), slog.Int64("uid", userID))

	if _, err := p.owned(ctx, id, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.storage.DeletePoll(ctx, id); err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		log.Error("failed to delete poll", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("poll deleted")
	p.notifier.NotifyPollChange(id, UpdateDeleted, map[string]int64{"pollId": id})

	return nil
}

func (p *Polls) owned(ctx context.Context, id, userID int64) (models.Poll, error) {
	poll, err := p.storage.PollByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return models.Poll{}, ErrPollNotFound
		}
		return models.Poll{}, err
	}

	if poll.AuthorID != userID {
		return models.Poll{}, ErrNotAuthor
	}

	return poll, nil
}

func normalizeQuestion(q string) (string, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return "", services.Validation("question is required")
	}
	if len([]rune(q)) > MaxQuestionLength {
		return "", services.Validation(fmt.Sprintf("question must be at most %d characters", MaxQuestionLength))
	}
	return q, nil
}

func normalizeOptions(in []string) ([]string, error) {
	if len(in) < MinOptions || len(in) > MaxOptions {
		return nil, services.Validation(fmt.Sprintf("a poll needs between %d and %d options", MinOptions, MaxOptions))
	}

	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, text := range in {
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, services.Validation("option text is required")
		}
		if len([]rune(text)) > MaxOptionLength {
			return nil, services.Validation(fmt.Sprintf("option text must be at most %d characters", MaxOptionLength))
		}

		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return nil, services.Validation("options must be unique")
		}
		seen[key] = struct{}{}
		out = append(out, text)
	}

	return out, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
