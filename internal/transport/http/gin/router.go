package httpgin

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/service"
	"github.com/kirinyoku/deskgo/internal/session"
)

type Options struct {
	// CookieSecure marks the session cookie Secure (HTTPS only).
	CookieSecure bool
	SessionTTL   time.Duration
}

func NewRouter(
	svcs *service.Services,
	sessions session.Store,
	idem *redisrepo.IdempotencyStore,
	opts Options,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public
	r.POST("/auth/login", handleLogin(svcs, opts))

	authed := r.Group("/", SessionMiddleware(sessions, logger))

	authGroup := authed.Group("/auth")
	{
		authGroup.POST("/logout", handleLogout(svcs))
		authGroup.POST("/refresh", handleRefresh(svcs))
		authGroup.GET("/me", handleMe(svcs))
		authGroup.GET("/verify", handleVerify(svcs))
	}

	ws := authed.Group("/workspaces")
	{
		ws.POST("", handleOpenWorkspace(svcs))
		ws.GET("/:id", handleGetWorkspace(svcs))
		ws.DELETE("/:id", handleCloseWorkspace(svcs))
		ws.POST("/:id/reload", handleReload(svcs))
		ws.GET("/:id/floorplan.svg", handleFloorPlanSVG(svcs))

		ws.POST("/:id/edit-mode", handleEditMode(svcs))
		ws.POST("/:id/select", handleSelect(svcs))
		ws.POST("/:id/pointer/down", handlePointerDown(svcs))
		ws.POST("/:id/pointer/move", handlePointerMove(svcs))
		ws.POST("/:id/pointer/up", handlePointerUp(svcs))
		ws.POST("/:id/canvas-click", handleCanvasClick(svcs))
		ws.POST("/:id/placement", handlePlacement(svcs))
		ws.POST("/:id/zoom", handleZoom(svcs))

		ws.POST("/:id/seats", handleAddSeat(svcs))
		ws.DELETE("/:id/seats/:seat_id", handleDeleteSeat(svcs))
		ws.POST("/:id/desk-areas", handleAddDeskArea(svcs))
		ws.POST("/:id/symbols", handleAddSymbol(svcs))
		ws.PUT("/:id/layout", handleResizeLayout(svcs))
		ws.POST("/:id/save", handleSave(svcs))

		ws.POST("/:id/dialog", handleOpenDialog(svcs))
		ws.PUT("/:id/dialog", handleUpdateDialog(svcs))
		ws.DELETE("/:id/dialog", handleCloseDialog(svcs))
		ws.POST("/:id/dialog/submit", handleSubmitDialog(svcs, idem))
	}

	bk := authed.Group("/bookings")
	{
		bk.GET("", handleListBookings(svcs))
		bk.GET("/mine", handleMyBookings(svcs))
		bk.GET("/dashboard", handleDashboard(svcs))
		bk.PUT("/:id", handleUpdateBooking(svcs))
		bk.DELETE("/:id", handleCancelBooking(svcs))
	}

	st := authed.Group("/seats")
	{
		st.GET("/availability", handleSeatAvailability(svcs))
		st.GET("/search", handleSearchSeats(svcs))
	}

	rs := authed.Group("/resources")
	{
		rs.GET("", handleListResources(svcs))
		rs.GET("/search", handleSearchResources(svcs))
		rs.GET("/popular", handlePopularResources(svcs))
		rs.GET("/categories", handleResourceCategories(svcs))
		rs.GET("/locations", handleResourceLocations(svcs))
		rs.GET("/:id/availability", handleResourceAvailability(svcs))
		rs.POST("/:id/book", handleBookResource(svcs))
	}

	// Admin-API
	admin := authed.Group("/admin", RequireAdmin())
	{
		admin.GET("/users", handleListUsers(svcs))
		admin.POST("/users", handleCreateUser(svcs))
		admin.PUT("/users/:id", handleUpdateUser(svcs))
		admin.DELETE("/users/:id", handleDeleteUser(svcs))
		admin.POST("/users/:id/active", handleSetUserActive(svcs))
		admin.GET("/roles", handleListRoles(svcs))

		admin.GET("/buildings", handleListBuildings(svcs))
		admin.POST("/buildings", handleSaveBuilding(svcs))
		admin.PUT("/buildings/:id", handleSaveBuilding(svcs))
		admin.DELETE("/buildings/:id", handleDeleteBuilding(svcs))

		admin.GET("/floors", handleListFloors(svcs))
		admin.POST("/floors", handleSaveFloor(svcs))
		admin.PUT("/floors/:id", handleSaveFloor(svcs))
		admin.DELETE("/floors/:id", handleDeleteFloor(svcs))
		admin.GET("/floors/:id/layout", handleFloorLayout(svcs))
		admin.PUT("/floors/:id/layout", handleSaveFloorLayout(svcs))
		admin.GET("/floors/:id/stats", handleFloorStats(svcs))
		admin.GET("/floors/:id/versions", handleFloorVersions(svcs))
		admin.POST("/floors/:id/versions/:version/restore", handleRestoreFloorVersion(svcs))

		admin.GET("/desks", handleListDesks(svcs))
		admin.POST("/desks", handleSaveDesk(svcs))
		admin.PUT("/desks/:id", handleSaveDesk(svcs))
		admin.DELETE("/desks/:id", handleDeleteDesk(svcs))

		admin.GET("/seats", handleListSeats(svcs))
		admin.GET("/seats/stats", handleSeatStats(svcs))
		admin.POST("/seats", handleCreateSeat(svcs))
		admin.PUT("/seats/:id", handleUpdateSeat(svcs))
		admin.DELETE("/seats/:id", handleDeleteSeatRecord(svcs))

		admin.POST("/resources", handleSaveResource(svcs))
		admin.PUT("/resources/:id", handleSaveResource(svcs))
		admin.DELETE("/resources/:id", handleDeleteResource(svcs))
	}

	return r
}

// --- Helpers ---

func parseIntParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseFloatDefault(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}
