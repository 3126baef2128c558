package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/deskgo/internal/backend"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/service"
)

// @Summary  List resources
// @Tags     resources
// @Param    category  query  string  false  "category"
// @Param    location  query  string  false  "location"
// @Success  200 {array} domain.Resource
// @Router   /resources [get]
func handleListResources(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Resources.List(c.Request.Context(), mustSession(c), backend.ResourceQuery{
			Category: c.Query("category"),
			Location: c.Query("location"),
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), cachePrivate, true)
	}
}

// @Summary  Search resources
// @Tags     resources
// @Param    q  query  string  true  "text"
// @Success  200 {array} domain.Resource
// @Failure  400 {object} ErrorResponse
// @Router   /resources/search [get]
func handleSearchResources(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Resources.Search(c.Request.Context(), mustSession(c), c.Query("q"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Most booked resources
// @Tags     resources
// @Success  200 {array} domain.Resource
// @Router   /resources/popular [get]
func handlePopularResources(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Resources.Popular(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), cachePrivate, true)
	}
}

// @Summary  Resource categories
// @Tags     resources
// @Success  200 {array} string
// @Router   /resources/categories [get]
func handleResourceCategories(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Resources.Categories(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), "private, max-age=60", false)
	}
}

// @Summary  Resource locations
// @Tags     resources
// @Success  200 {array} string
// @Router   /resources/locations [get]
func handleResourceLocations(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Resources.Locations(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), "private, max-age=60", false)
	}
}

// @Summary  Time slots of a resource on a date
// @Tags     resources
// @Param    id    path   string  true   "Resource ID"
// @Param    date  query  string  false  "YYYY-MM-DD"
// @Success  200 {object} domain.Availability
// @Router   /resources/{id}/availability [get]
func handleResourceAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := svcs.Resources.Availability(c.Request.Context(), mustSession(c), c.Param("id"), c.Query("date"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// @Summary  Book a resource
// @Tags     resources
// @Param    id   path  string                         true  "Resource ID"
// @Param    req  body  domain.ResourceBookingRequest  true  "slot"
// @Success  201 {object} domain.Booking
// @Router   /resources/{id}/book [post]
func handleBookResource(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.ResourceBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Resources.Book(c.Request.Context(), mustSession(c), c.Param("id"), req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

// @Summary  Create or update a resource (admin)
// @Tags     admin
// @Param    id   path  string           false  "Resource ID (update)"
// @Param    req  body  domain.Resource  true   "resource"
// @Success  200 {object} domain.Resource
// @Success  201 {object} domain.Resource
// @Router   /admin/resources/{id} [put]
// @Router   /admin/resources [post]
func handleSaveResource(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Resource
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		ctx, sess := c.Request.Context(), mustSession(c)
		if id := c.Param("id"); id != "" {
			req.ID = id
			r, err := svcs.Resources.Update(ctx, sess, req)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, r)
			return
		}
		r, err := svcs.Resources.Create(ctx, sess, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, r)
	}
}

// @Summary  Delete a resource (admin)
// @Tags     admin
// @Param    id  path  string  true  "Resource ID"
// @Success  204
// @Router   /admin/resources/{id} [delete]
func handleDeleteResource(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svcs.Resources.Delete(c.Request.Context(), mustSession(c), c.Param("id")); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
