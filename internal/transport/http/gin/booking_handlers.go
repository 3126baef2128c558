package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/service"
)

// @Summary  List bookings
// @Tags     bookings
// @Param    date     query  string  false  "YYYY-MM-DD"
// @Param    seat_id  query  string  false  "seat"
// @Param    status   query  string  false  "status"
// @Success  200 {array} domain.Booking
// @Router   /bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Bookings.List(c.Request.Context(), mustSession(c), domain.BookingFilter{
			Date:   c.Query("date"),
			SeatID: c.Query("seat_id"),
			Status: c.Query("status"),
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), cachePrivate, true)
	}
}

// @Summary  The caller's bookings
// @Tags     bookings
// @Success  200 {array} domain.Booking
// @Router   /bookings/mine [get]
func handleMyBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Bookings.Mine(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), cachePrivate, true)
	}
}

// @Summary  The caller's bookings grouped into today, upcoming and history
// @Tags     bookings
// @Success  200 {object} domain.Dashboard
// @Router   /bookings/dashboard [get]
func handleDashboard(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svcs.Bookings.Dashboard(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, d, cachePrivate, true)
	}
}

// @Summary  Change a booking
// @Tags     bookings
// @Param    id   path  string               true  "Booking ID"
// @Param    req  body  domain.BookingUpdate true  "fields to change"
// @Success  200 {object} domain.Booking
// @Failure  400 {object} ErrorResponse
// @Router   /bookings/{id} [put]
func handleUpdateBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.BookingUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Bookings.Update(c.Request.Context(), mustSession(c), c.Param("id"), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  Cancel a booking
// @Tags     bookings
// @Param    id  path  string  true  "Booking ID"
// @Success  204
// @Router   /bookings/{id} [delete]
func handleCancelBooking(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Bookings.Cancel(c.Request.Context(), mustSession(c), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// nonNil keeps empty lists as [] in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
