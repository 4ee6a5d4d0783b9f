package votes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/storage"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
)

//go:generate mockgen -source=tally.go -destination=mocks/mock_tally.go -package=mocks

type CountStorage interface {
	// OptionCounts must read the poll and every option count from one snapshot.
	OptionCounts(ctx context.Context, pollID int64) (models.Poll, []models.OptionTally, error)
}

type Aggregator struct {
	log     *slog.Logger
	storage CountStorage
}

func NewAggregator(log *slog.Logger, storage CountStorage) *Aggregator {
	return &Aggregator{
		log:     log,
		storage: storage,
	}
}

// ComputeTally counts live votes per option. The total is the sum of the
// option counts, so it always agrees with them.
func (a *Aggregator) ComputeTally(ctx context.Context, pollID int64) (models.Tally, error) {
	const op = "votes.Aggregator.ComputeTally"

	poll, options, err := a.storage.OptionCounts(ctx, pollID)
	if err != nil {
		if errors.Is(err, storage.ErrPollNotFound) {
			return models.Tally{}, fmt.Errorf("%s: %w", op, ErrPollNotFound)
		}
		a.log.Error("failed to count votes", slog.String("op", op), slog.Int64("poll_id", pollID), sl.Err(err))
		return models.Tally{}, fmt.Errorf("%s: %w", op, err)
	}

	counts := make([]int64, len(options))
	var total int64
	for i, o := range options {
		counts[i] = o.VoteCount
		total += o.VoteCount
	}

	for i, p := range Percentages(counts, total) {
		options[i].Percentage = p
	}

	if options == nil {
		options = []models.OptionTally{}
	}

	return models.Tally{
		PollID:     poll.ID,
		Question:   poll.Question,
		TotalVotes: total,
		Options:    options,
	}, nil
}

// Percentages rounds count/total*100 to the nearest integer. When rounding
// pushes the sum past 100, the options that were rounded up the most give a
// point back until the sum is at most 100. A zero total yields all zeros.
func Percentages(counts []int64, total int64) []int {
	out := make([]int, len(counts))
	if total <= 0 {
		return out
	}

	exact := make([]float64, len(counts))
	sum := 0
	for i, c := range counts {
		exact[i] = float64(c) * 100 / float64(total)
		out[i] = int(math.Round(exact[i]))
		sum += out[i]
	}

	for sum > 100 {
		best := 0
		for i := range out {
			if float64(out[i])-exact[i] > float64(out[best])-exact[best] {
				best = i
			}
		}
		out[best]--
		sum--
	}

	return out
}
