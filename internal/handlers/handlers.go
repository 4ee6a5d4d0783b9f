package handlers

import (
	"strconv"

	"github.com/14kear/livepoll/internal/domain/models"
	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/middleware"
	"github.com/14kear/livepoll/internal/services"
	"github.com/gin-gonic/gin"
)

var errUnauthorized = services.NewError(services.ErrUnauthorized, "unauthorized")

// principal returns the caller or writes a 401 and returns false.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Err(c, errUnauthorized)
		return models.Principal{}, false
	}
	return p, true
}

// idParam parses a positive int64 path parameter or writes a 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Err(c, services.Validation("invalid "+name))
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
