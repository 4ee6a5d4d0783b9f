package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/services/votes"
	"github.com/gin-gonic/gin"
)

type VoteService interface {
	Cast(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error)
	Change(ctx context.Context, userID, pollID, optionID int64) (models.Vote, error)
	Retract(ctx context.Context, userID, optionID int64) error
	MyVote(ctx context.Context, userID, pollID int64) (models.Vote, error)
}

type TallyService interface {
	ComputeTally(ctx context.Context, pollID int64) (models.Tally, error)
}

type VoteHandler struct {
	votes VoteService
	tally TallyService
}

type VoteRequest struct {
	PollID       int64 `json:"pollId" binding:"required,gt=0"`
	PollOptionID int64 `json:"pollOptionId" binding:"required,gt=0"`
}

func NewVoteHandler(votes VoteService, tally TallyService) *VoteHandler {
	return &VoteHandler{votes: votes, tally: tally}
}

func (h *VoteHandler) Cast(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("pollId and pollOptionId are required"))
		return
	}

	vote, err := h.votes.Cast(c.Request.Context(), p.UserID, req.PollID, req.PollOptionID)
	if err != nil {
		voteErr(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "vote cast", vote)
}

func (h *VoteHandler) Change(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("pollId and pollOptionId are required"))
		return
	}

	vote, err := h.votes.Change(c.Request.Context(), p.UserID, req.PollID, req.PollOptionID)
	if err != nil {
		voteErr(c, err)
		return
	}

	response.OK(c, http.StatusOK, "vote updated", vote)
}

func (h *VoteHandler) Retract(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	optionID, ok := idParam(c, "pollOptionId")
	if !ok {
		return
	}

	if err := h.votes.Retract(c.Request.Context(), p.UserID, optionID); err != nil {
		voteErr(c, err)
		return
	}

	response.OK(c, http.StatusOK, "vote removed", nil)
}

func (h *VoteHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	pollID, ok := idParam(c, "pollId")
	if !ok {
		return
	}

	vote, err := h.votes.MyVote(c.Request.Context(), p.UserID, pollID)
	if err != nil {
		voteErr(c, err)
		return
	}

	response.OK(c, http.StatusOK, "vote retrieved", vote)
}

func (h *VoteHandler) Stats(c *gin.Context) {
	pollID, ok := idParam(c, "pollId")
	if !ok {
		return
	}

	tally, err := h.tally.ComputeTally(c.Request.Context(), pollID)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "poll statistics retrieved", tally)
}

// voteErr picks the status for conflicts that are not plain duplicates.
func voteErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, votes.ErrPollNotPublished):
		response.ErrWithStatus(c, http.StatusForbidden, err)
	case errors.Is(err, votes.ErrOptionNotInPoll):
		response.ErrWithStatus(c, http.StatusBadRequest, err)
	default:
		response.Err(c, err)
	}
}
