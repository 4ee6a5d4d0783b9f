package handlers

import (
	"context"
	"net/http"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/middleware"
	"github.com/14kear/livepoll/internal/services"
	"github.com/14kear/livepoll/internal/services/polls"
	"github.com/gin-gonic/gin"
)

type PollService interface {
	Create(ctx context.Context, authorID int64, in polls.CreateInput) (models.Poll, error)
	Get(ctx context.Context, id, viewerID int64) (models.Poll, error)
	ListPublished(ctx context.Context, page, limit int) ([]models.Poll, error)
	ListByAuthor(ctx context.Context, authorID int64, page, limit int) ([]models.Poll, error)
	Update(ctx context.Context, id, userID int64, in polls.UpdateInput) (models.Poll, error)
	Delete(ctx context.Context, id, userID int64) error
}

type PollHandler struct {
	polls PollService
}

type CreatePollRequest struct {
	Question    string   `json:"question" binding:"required"`
	Options     []string `json:"options" binding:"required"`
	IsPublished bool     `json:"isPublished"`
}

type UpdatePollRequest struct {
	Question    *string `json:"question"`
	IsPublished *bool   `json:"isPublished"`
}

func NewPollHandler(polls PollService) *PollHandler {
	return &PollHandler{polls: polls}
}

func (h *PollHandler) Create(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req CreatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("question and options are required"))
		return
	}

	poll, err := h.polls.Create(c.Request.Context(), p.UserID, polls.CreateInput{
		Question:    req.Question,
		Options:     req.Options,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "poll created", poll)
}

func (h *PollHandler) List(c *gin.Context) {
	list, err := h.polls.ListPublished(c.Request.Context(), intQuery(c, "page"), intQuery(c, "limit"))
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "polls retrieved", list)
}

func (h *PollHandler) Mine(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	list, err := h.polls.ListByAuthor(c.Request.Context(), p.UserID, intQuery(c, "page"), intQuery(c, "limit"))
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "polls retrieved", list)
}

// Get works for anonymous callers; only the author sees an unpublished poll.
func (h *PollHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var viewerID int64
	if p, ok := middleware.PrincipalFrom(c); ok {
		viewerID = p.UserID
	}

	poll, err := h.polls.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "poll retrieved", poll)
}

func (h *PollHandler) Update(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdatePollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("invalid request body"))
		return
	}

	poll, err := h.polls.Update(c.Request.Context(), id, p.UserID, polls.UpdateInput{
		Question:    req.Question,
		IsPublished: req.IsPublished,
	})
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "poll updated", poll)
}

func (h *PollHandler) Delete(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.polls.Delete(c.Request.Context(), id, p.UserID); err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "poll deleted", nil)
}
