package httpgin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	"github.com/kirinyoku/deskgo/internal/service/admin"
	"github.com/kirinyoku/deskgo/internal/service/auth"
	"github.com/kirinyoku/deskgo/internal/service/bookings"
	"github.com/kirinyoku/deskgo/internal/service/resources"
	"github.com/kirinyoku/deskgo/internal/service/workspaces"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeSessionExpired  = "SESSION_EXPIRED"
	codeValidation      = "VALIDATION_FAILED"
	codeUpstream        = "UPSTREAM_ERROR"
)

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var (
		apiErr  *backend.APIError
		verr    booking.ValidationError
		limited auth.RateLimitedError
	)

	switch {
	// session
	case errors.Is(err, backend.ErrSessionExpired), errors.Is(err, backend.ErrNoSession):
		if sess, ok := sessionFrom(c); ok {
			sess.Clear()
		}
		clearSessionCookie(c)
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session expired", Code: codeSessionExpired})
		return
	case errors.As(err, &limited):
		c.Header("Retry-After", strconv.Itoa(int(limited.RetryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: limited.Error()})
		return

	// access
	case errors.Is(err, workspaces.ErrForbidden),
		errors.Is(err, admin.ErrForbidden),
		errors.Is(err, resources.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "administrator role required"})
		return

	// workspaces
	case errors.Is(err, workspace.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "workspace not found"})
		return
	case errors.Is(err, workspaces.ErrSaveInProgress):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, ErrorResponse{Error: workspaces.ErrSaveInProgress.Error()})
		return
	case errors.Is(err, workspaces.ErrInvalidFloor),
		errors.Is(err, workspaces.ErrInvalidDate),
		errors.Is(err, workspaces.ErrInvalidZoom):
		badRequest(c, rootMessage(err))
		return

	// editor
	case errors.Is(err, floorplan.ErrNotEditing), errors.Is(err, floorplan.ErrPlacementActive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: rootMessage(err)})
		return
	case errors.Is(err, floorplan.ErrUnknownEntity):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: rootMessage(err)})
		return
	case errors.Is(err, floorplan.ErrNotSelectable),
		errors.Is(err, floorplan.ErrConfirmationRequired),
		errors.Is(err, floorplan.ErrInvalidPlacement),
		errors.Is(err, floorplan.ErrInvalidSize),
		errors.Is(err, floorplan.ErrNotMounted):
		badRequest(c, rootMessage(err))
		return

	// booking dialog
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  verr.Error(),
			Code:   codeValidation,
			Issues: verr.Issues,
		})
		return
	case errors.Is(err, booking.ErrSeatUnavailable),
		errors.Is(err, booking.ErrNotOpen),
		errors.Is(err, booking.ErrSubmitting),
		errors.Is(err, booking.ErrNotBooking):
		c.JSON(http.StatusConflict, ErrorResponse{Error: rootMessage(err)})
		return

	// input checks
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, bookings.ErrEmptyUpdate),
		errors.Is(err, resources.ErrEmptyQuery),
		errors.Is(err, resources.ErrInvalidName),
		errors.Is(err, admin.ErrInvalidInput):
		badRequest(c, rootMessage(err))
		return

	// API
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		c.JSON(status, ErrorResponse{Error: backend.Message(apiErr), Code: apiErr.Code})
		return
	case errors.Is(err, backend.ErrUnavailable):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "booking service unavailable", Code: codeUpstream})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// rootMessage strips the "pkg.Type.Method: " prefixes added while wrapping.
func rootMessage(err error) string {
	msg := err.Error()
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || strings.ContainsAny(head, " \t") || !strings.Contains(head, ".") {
			return msg
		}
		msg = rest
	}
}
