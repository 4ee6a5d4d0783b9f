package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/logger"
	"github.com/14kear/livepoll/internal/services/votes/mocks"
	"github.com/14kear/livepoll/internal/storage"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentages(t *testing.T) {
	tests := []struct {
		name   string
		counts []int64
		want   []int
	}{
		{name: "no votes", counts: []int64{0, 0, 0}, want: []int{0, 0, 0}},
		{name: "single winner", counts: []int64{1, 0}, want: []int{100, 0}},
		{name: "even split", counts: []int64{1, 1}, want: []int{50, 50}},
		{name: "thirds", counts: []int64{1, 1, 1}, want: []int{33, 33, 33}},
		{name: "halves round up", counts: []int64{1, 1, 1, 1, 1, 1, 1, 1}, want: []int{12, 12, 12, 12, 13, 13, 13, 13}},
		{name: "no options", counts: nil, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var total int64
			for _, c := range tt.counts {
				total += c
			}

			assert.Equal(t, tt.want, Percentages(tt.counts, total))
		})
	}
}

func TestPercentages_Bounds(t *testing.T) {
	for i := 0; i < 500; i++ {
		n := gofakeit.IntRange(1, 12)
		counts := make([]int64, n)
		var total int64
		for j := range counts {
			counts[j] = int64(gofakeit.IntRange(0, 50))
			total += counts[j]
		}

		got := Percentages(counts, total)

		sum := 0
		for _, p := range got {
			assert.GreaterOrEqual(t, p, 0)
			assert.LessOrEqual(t, p, 100)
			sum += p
		}
		assert.LessOrEqual(t, sum, 100, "counts %v", counts)

		if total == 0 {
			assert.Equal(t, 0, sum)
		}
	}
}

func TestAggregator_ComputeTally(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockCountStorage(ctrl)
	agg := NewAggregator(logger.NewDiscard(), st)

	st.EXPECT().OptionCounts(gomock.Any(), int64(4)).Return(
		models.Poll{ID: 4, Question: "Best editor?"},
		[]models.OptionTally{
			{ID: 1, Text: "vim", VoteCount: 3},
			{ID: 2, Text: "emacs", VoteCount: 1},
		},
		nil,
	)

	tally, err := agg.ComputeTally(context.Background(), 4)
	require.NoError(t, err)

	assert.Equal(t, int64(4), tally.PollID)
	assert.Equal(t, "Best editor?", tally.Question)
	assert.Equal(t, int64(4), tally.TotalVotes)
	assert.Equal(t, 75, tally.Options[0].Percentage)
	assert.Equal(t, 25, tally.Options[1].Percentage)
}

func TestAggregator_ComputeTally_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockCountStorage(ctrl)
	agg := NewAggregator(logger.NewDiscard(), st)

	st.EXPECT().OptionCounts(gomock.Any(), int64(1)).Return(models.Poll{}, nil, storage.ErrPollNotFound)
	_, err := agg.ComputeTally(context.Background(), 1)
	assert.ErrorIs(t, err, ErrPollNotFound)

	dbErr := errors.New("boom")
	st.EXPECT().OptionCounts(gomock.Any(), int64(2)).Return(models.Poll{}, nil, dbErr)
	_, err = agg.ComputeTally(context.Background(), 2)
	assert.ErrorIs(t, err, dbErr)
}
