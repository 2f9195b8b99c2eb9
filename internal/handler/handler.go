package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/masakazoo1979/dailyReport-sub001/internal/middleware"
	"github.com/masakazoo1979/dailyReport-sub001/internal/workflow"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/apperr"
	"github.com/masakazoo1979/dailyReport-sub001/pkg/response"
)

// respondError translates a service error into the taxonomy's HTTP status and
// stable code. Unexpected failures are logged with context and surfaced as a
// non-specific internal error without leaking internals.
func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, response.Error(status, apperr.Code(err), "internal server error"))
		return
	}
	c.JSON(status, response.Error(status, apperr.Code(err), err.Error()))
}

// actorFromContext rebuilds the workflow actor from the session claims the
// auth middleware stored.
func actorFromContext(c *gin.Context) (workflow.Actor, bool) {
	idVal, ok := c.Get(middleware.ContextUserID)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "AUTHENTICATION_ERROR", "no session"))
		return workflow.Actor{}, false
	}
	idStr, ok := idVal.(string)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid session subject"))
		return workflow.Actor{}, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "AUTHENTICATION_ERROR", "invalid session subject"))
		return workflow.Actor{}, false
	}

	roleVal, _ := c.Get(middleware.ContextUserRole)
	roleStr, _ := roleVal.(string)
	role := workflow.Role(roleStr)
	if !role.Valid() {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "AUTHORIZATION_ERROR", "invalid session role"))
		return workflow.Actor{}, false
	}

	return workflow.Actor{ID: id, Role: role}, true
}
