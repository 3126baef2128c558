package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/service"
)

func floorKeyQuery(c *gin.Context) domain.FloorKey {
	return domain.FloorKey{
		Building: c.Query("building"),
		Office:   c.Query("office"),
		Floor:    c.Query("floor"),
		Date:     c.Query("date"),
	}
}

// respondSaved answers 201 for creates (no :id in the path) and 200 for updates.
func respondSaved(c *gin.Context, v any, err error) {
	if err != nil {
		respondErr(c, err)
		return
	}
	if c.Param("id") == "" {
		c.JSON(http.StatusCreated, v)
		return
	}
	c.JSON(http.StatusOK, v)
}

func respondDeleted(c *gin.Context, err error) {
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- users ---

// @Summary  List users (admin)
// @Tags     admin
// @Success  200 {array} domain.User
// @Failure  403 {object} ErrorResponse
// @Router   /admin/users [get]
func handleListUsers(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Users(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Create a user (admin)
// @Tags     admin
// @Param    req  body  domain.UserInput  true  "user"
// @Success  201 {object} domain.User
// @Failure  400 {object} ErrorResponse
// @Router   /admin/users [post]
func handleCreateUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.UserInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Admin.CreateUser(c.Request.Context(), mustSession(c), req)
		respondSaved(c, u, err)
	}
}

// @Summary  Update a user (admin)
// @Tags     admin
// @Param    id   path  string            true  "User ID"
// @Param    req  body  domain.UserInput  true  "fields to change"
// @Success  200 {object} domain.User
// @Router   /admin/users/{id} [put]
func handleUpdateUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.UserInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := svcs.Admin.UpdateUser(c.Request.Context(), mustSession(c), c.Param("id"), req)
		respondSaved(c, u, err)
	}
}

// @Summary  Delete a user (admin)
// @Tags     admin
// @Param    id  path  string  true  "User ID"
// @Success  204
// @Router   /admin/users/{id} [delete]
func handleDeleteUser(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondDeleted(c, svcs.Admin.DeleteUser(c.Request.Context(), mustSession(c), c.Param("id")))
	}
}

// @Summary  Activate or deactivate a user (admin)
// @Tags     admin
// @Param    id   path  string            true  "User ID"
// @Param    req  body  SetActiveRequest  true  "payload"
// @Success  204
// @Router   /admin/users/{id}/active [post]
func handleSetUserActive(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SetActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		err := svcs.Admin.SetUserActive(c.Request.Context(), mustSession(c), c.Param("id"), *req.Active)
		respondDeleted(c, err)
	}
}

// @Summary  List roles (admin)
// @Tags     admin
// @Success  200 {array} domain.RoleInfo
// @Router   /admin/roles [get]
func handleListRoles(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Roles(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), "private, max-age=300", false)
	}
}

// --- buildings, floors, desks ---

// @Summary  List buildings (admin)
// @Tags     admin
// @Success  200 {array} domain.Building
// @Router   /admin/buildings [get]
func handleListBuildings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Buildings(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Create or update a building (admin)
// @Tags     admin
// @Param    id   path  string           false  "Building ID (update)"
// @Param    req  body  domain.Building  true   "building"
// @Success  200 {object} domain.Building
// @Success  201 {object} domain.Building
// @Router   /admin/buildings [post]
// @Router   /admin/buildings/{id} [put]
func handleSaveBuilding(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Building
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.ID = c.Param("id")
		b, err := svcs.Admin.SaveBuilding(c.Request.Context(), mustSession(c), req)
		respondSaved(c, b, err)
	}
}

// @Summary  Delete a building (admin)
// @Tags     admin
// @Param    id  path  string  true  "Building ID"
// @Success  204
// @Router   /admin/buildings/{id} [delete]
func handleDeleteBuilding(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondDeleted(c, svcs.Admin.DeleteBuilding(c.Request.Context(), mustSession(c), c.Param("id")))
	}
}

// @Summary  List floors of a building (admin)
// @Tags     admin
// @Param    building_id  query  string  true  "Building ID"
// @Success  200 {array} domain.Floor
// @Router   /admin/floors [get]
func handleListFloors(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Floors(c.Request.Context(), mustSession(c), c.Query("building_id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Create or update a floor (admin)
// @Tags     admin
// @Param    id   path  string        false  "Floor ID (update)"
// @Param    req  body  domain.Floor  true   "floor"
// @Success  200 {object} domain.Floor
// @Success  201 {object} domain.Floor
// @Router   /admin/floors [post]
// @Router   /admin/floors/{id} [put]
func handleSaveFloor(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Floor
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.ID = c.Param("id")
		f, err := svcs.Admin.SaveFloor(c.Request.Context(), mustSession(c), req)
		respondSaved(c, f, err)
	}
}

// @Summary  Delete a floor (admin)
// @Tags     admin
// @Param    id  path  string  true  "Floor ID"
// @Success  204
// @Router   /admin/floors/{id} [delete]
func handleDeleteFloor(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondDeleted(c, svcs.Admin.DeleteFloor(c.Request.Context(), mustSession(c), c.Param("id")))
	}
}

// @Summary  Stored layout of a floor (admin)
// @Tags     admin
// @Param    id  path  string  true  "Floor ID"
// @Success  200 {object} domain.FloorPlan
// @Router   /admin/floors/{id}/layout [get]
func handleFloorLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		plan, err := svcs.Admin.FloorLayout(c.Request.Context(), mustSession(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, plan, cachePrivate, true)
	}
}

// @Summary  Replace the layout of a floor (admin)
// @Tags     admin
// @Param    id   path  string            true  "Floor ID"
// @Param    req  body  domain.FloorPlan  true  "layout"
// @Success  204
// @Router   /admin/floors/{id}/layout [put]
func handleSaveFloorLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.FloorPlan
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		respondDeleted(c, svcs.Admin.SaveFloorLayout(c.Request.Context(), mustSession(c), c.Param("id"), req))
	}
}

// @Summary  Occupancy statistics of a floor (admin)
// @Tags     admin
// @Param    id  path  string  true  "Floor ID"
// @Success  200 {object} map[string]any
// @Router   /admin/floors/{id}/stats [get]
func handleFloorStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svcs.Admin.FloorStats(c.Request.Context(), mustSession(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// @Summary  Layout versions of a floor (admin)
// @Tags     admin
// @Param    id  path  string  true  "Floor ID"
// @Success  200 {array} domain.FloorVersion
// @Router   /admin/floors/{id}/versions [get]
func handleFloorVersions(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.FloorVersions(c.Request.Context(), mustSession(c), c.Param("id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Restore a layout version (admin)
// @Tags     admin
// @Param    id       path  string   true  "Floor ID"
// @Param    version  path  integer  true  "Version"
// @Success  204
// @Router   /admin/floors/{id}/versions/{version}/restore [post]
func handleRestoreFloorVersion(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		version, ok := parseIntParam(c, "version")
		if !ok {
			return
		}
		respondDeleted(c, svcs.Admin.RestoreFloorVersion(c.Request.Context(), mustSession(c), c.Param("id"), version))
	}
}

// @Summary  List desks of a floor (admin)
// @Tags     admin
// @Param    floor_id  query  string  true  "Floor ID"
// @Success  200 {array} domain.Desk
// @Router   /admin/desks [get]
func handleListDesks(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Desks(c.Request.Context(), mustSession(c), c.Query("floor_id"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Create or update a desk (admin)
// @Tags     admin
// @Param    id   path  string       false  "Desk ID (update)"
// @Param    req  body  domain.Desk  true   "desk"
// @Success  200 {object} domain.Desk
// @Success  201 {object} domain.Desk
// @Router   /admin/desks [post]
// @Router   /admin/desks/{id} [put]
func handleSaveDesk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Desk
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.ID = c.Param("id")
		d, err := svcs.Admin.SaveDesk(c.Request.Context(), mustSession(c), req)
		respondSaved(c, d, err)
	}
}

// @Summary  Delete a desk (admin)
// @Tags     admin
// @Param    id  path  string  true  "Desk ID"
// @Success  204
// @Router   /admin/desks/{id} [delete]
func handleDeleteDesk(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondDeleted(c, svcs.Admin.DeleteDesk(c.Request.Context(), mustSession(c), c.Param("id")))
	}
}

// --- seats ---

// @Summary  List seats of a floor (admin)
// @Tags     admin
// @Param    building  query  string  true   "Building"
// @Param    office    query  string  true   "Office"
// @Param    floor     query  string  true   "Floor"
// @Param    date      query  string  false  "YYYY-MM-DD"
// @Success  200 {array} domain.Seat
// @Router   /admin/seats [get]
func handleListSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.Seats(c.Request.Context(), mustSession(c), floorKeyQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}

// @Summary  Seat statistics of a floor (admin)
// @Tags     admin
// @Param    building  query  string  true  "Building"
// @Param    office    query  string  true  "Office"
// @Param    floor     query  string  true  "Floor"
// @Success  200 {object} map[string]any
// @Router   /admin/seats/stats [get]
func handleSeatStats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := svcs.Admin.SeatStats(c.Request.Context(), mustSession(c), floorKeyQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	}
}

// @Summary  Create a seat record (admin)
// @Tags     admin
// @Param    building  query  string       true  "Building"
// @Param    office    query  string       true  "Office"
// @Param    floor     query  string       true  "Floor"
// @Param    req       body   domain.Seat  true  "seat"
// @Success  201 {object} domain.Seat
// @Router   /admin/seats [post]
func handleCreateSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Seat
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		seat, err := svcs.Admin.CreateSeat(c.Request.Context(), mustSession(c), floorKeyQuery(c), req)
		respondSaved(c, seat, err)
	}
}

// @Summary  Update a seat record (admin)
// @Tags     admin
// @Param    id        path   string       true  "Seat ID"
// @Param    building  query  string       true  "Building"
// @Param    office    query  string       true  "Office"
// @Param    floor     query  string       true  "Floor"
// @Param    req       body   domain.Seat  true  "seat"
// @Success  200 {object} domain.Seat
// @Router   /admin/seats/{id} [put]
func handleUpdateSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Seat
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		req.ID = c.Param("id")
		seat, err := svcs.Admin.UpdateSeat(c.Request.Context(), mustSession(c), floorKeyQuery(c), req)
		respondSaved(c, seat, err)
	}
}

// @Summary  Delete a seat record (admin)
// @Tags     admin
// @Param    id        path   string  true  "Seat ID"
// @Param    building  query  string  true  "Building"
// @Param    office    query  string  true  "Office"
// @Param    floor     query  string  true  "Floor"
// @Success  204
// @Router   /admin/seats/{id} [delete]
func handleDeleteSeatRecord(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		respondDeleted(c, svcs.Admin.DeleteSeat(c.Request.Context(), mustSession(c), floorKeyQuery(c), c.Param("id")))
	}
}

// @Summary  Seat availability on a floor and date
// @Tags     seats
// @Param    building  query  string  true   "Building"
// @Param    office    query  string  true   "Office"
// @Param    floor     query  string  true   "Floor"
// @Param    date      query  string  false  "YYYY-MM-DD"
// @Success  200 {array} domain.Seat
// @Router   /seats/availability [get]
func handleSeatAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.SeatAvailability(c.Request.Context(), mustSession(c), floorKeyQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, nonNil(list), cachePrivate, true)
	}
}

// @Summary  Search seats
// @Tags     seats
// @Param    q         query  string  true   "text"
// @Param    building  query  string  false  "Building"
// @Param    office    query  string  false  "Office"
// @Param    floor     query  string  false  "Floor"
// @Success  200 {array} domain.Seat
// @Router   /seats/search [get]
func handleSearchSeats(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svcs.Admin.SearchSeats(c.Request.Context(), mustSession(c), c.Query("q"), floorKeyQuery(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNil(list))
	}
}
