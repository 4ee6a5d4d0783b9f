package handlers

import (
	"context"
	"net/http"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthService interface {
	RegisterNewUser(ctx context.Context, email, name, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (string, models.User, error)
	User(ctx context.Context, id int64) (models.User, error)
	UpdateName(ctx context.Context, id int64, name string) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type AuthHandler struct {
	auth AuthService
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"accessToken"`
	User        models.User `json:"user"`
}

func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("a valid email, name and password are required"))
		return
	}

	user, err := h.auth.RegisterNewUser(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusCreated, "user registered", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("a valid email and password are required"))
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "logged in", LoginResponse{AccessToken: token, User: user})
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.auth.User(c.Request.Context(), p.UserID)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user retrieved", user)
}

func (h *AuthHandler) UpdateMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Err(c, services.Validation("name is required"))
		return
	}

	user, err := h.auth.UpdateName(c.Request.Context(), p.UserID, req.Name)
	if err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user updated", user)
}

func (h *AuthHandler) DeleteMe(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.auth.DeleteUser(c.Request.Context(), p.UserID); err != nil {
		response.Err(c, err)
		return
	}

	response.OK(c, http.StatusOK, "user deleted", nil)
}
