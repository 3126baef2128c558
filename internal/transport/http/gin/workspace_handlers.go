package httpgin

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kirinyoku/deskgo/internal/booking"
	"github.com/kirinyoku/deskgo/internal/domain"
	"github.com/kirinyoku/deskgo/internal/floorplan"
	redisrepo "github.com/kirinyoku/deskgo/internal/repository/redis"
	"github.com/kirinyoku/deskgo/internal/service"
	"github.com/kirinyoku/deskgo/internal/service/workspaces"
	"github.com/kirinyoku/deskgo/internal/workspace"
)

func workspaceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid workspace id")
		return uuid.Nil, false
	}
	return id, true
}

func respondWorkspace(c *gin.Context, w *workspace.Workspace, err error) {
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toView(w))
}

// @Summary  Open a floor plan
// @Tags     workspaces
// @Param    req body  OpenWorkspaceRequest true "floor and date"
// @Success  201 {object} WorkspaceView
// @Failure  400 {object} ErrorResponse
// @Failure  401 {object} ErrorResponse
// @Router   /workspaces [post]
func handleOpenWorkspace(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OpenWorkspaceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.Open(c.Request.Context(), mustSession(c), domain.FloorKey{
			Building: req.Building,
			Office:   req.Office,
			Floor:    req.Floor,
			Date:     req.Date,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Header("Location", "/workspaces/"+w.ID.String())
		c.JSON(http.StatusCreated, toView(w))
	}
}

// @Summary  Get workspace state
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  200 {object} WorkspaceView
// @Success  304
// @Failure  404 {object} ErrorResponse
// @Router   /workspaces/{id} [get]
func handleGetWorkspace(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		w, err := svcs.Workspaces.Get(c.Request.Context(), mustSession(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, toView(w), cachePrivate, true)
	}
}

// @Summary  Close a workspace
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  204
// @Router   /workspaces/{id} [delete]
func handleCloseWorkspace(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		if err := svcs.Workspaces.Close(c.Request.Context(), mustSession(c), id); err != nil {
			respondErr(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Reload the plan, optionally for another floor or date
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  ReloadRequest false "fields to change"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/reload [post]
func handleReload(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req ReloadRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.Reload(c.Request.Context(), mustSession(c), id, domain.FloorKey{
			Building: req.Building,
			Office:   req.Office,
			Floor:    req.Floor,
			Date:     req.Date,
		})
		respondWorkspace(c, w, err)
	}
}

// @Summary  Render the plan as SVG
// @Tags     workspaces
// @Produce  image/svg+xml
// @Param    id      path   string  true   "Workspace ID"
// @Param    width   query  number  false  "unzoomed width in px"
// @Param    height  query  number  false  "unzoomed height in px"
// @Success  200 {string} string
// @Router   /workspaces/{id}/floorplan.svg [get]
func handleFloorPlanSVG(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		base := floorplan.Size{
			Width:  parseFloatDefault(c.Query("width"), 0),
			Height: parseFloatDefault(c.Query("height"), 0),
		}
		svg, err := svcs.Workspaces.SVG(c.Request.Context(), mustSession(c), id, base)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeWithCache(c, http.StatusOK, contentTypeSVG, []byte(svg), cachePrivate, false)
	}
}

// @Summary  Enter or leave edit mode (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  EditModeRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Failure  403 {object} ErrorResponse
// @Router   /workspaces/{id}/edit-mode [post]
func handleEditMode(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req EditModeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.SetEditMode(c.Request.Context(), mustSession(c), id, *req.Enabled)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Select an entity
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  SelectRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/select [post]
func handleSelect(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req SelectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		ref := floorplan.Ref{Class: floorplan.Class(req.Class), ID: req.ID}
		w, err := svcs.Workspaces.Select(c.Request.Context(), mustSession(c), id, ref, req.Additive)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Start dragging an entity
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  PointerDownRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/pointer/down [post]
func handlePointerDown(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req PointerDownRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		ref := floorplan.Ref{Class: floorplan.Class(req.Class), ID: req.ID}
		w, err := svcs.Workspaces.PointerDown(c.Request.Context(), mustSession(c), id, ref, req.Point)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Move the pointer during a drag
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  PointerRequest true "payload"
// @Success  200 {object} PointerMoveResponse
// @Router   /workspaces/{id}/pointer/move [post]
func handlePointerMove(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req PointerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, moved, err := svcs.Workspaces.PointerMove(c.Request.Context(), mustSession(c), id, req.Point, req.Rect)
		if err != nil {
			respondErr(c, err)
			return
		}
		if moved == nil {
			moved = []floorplan.Ref{}
		}
		c.JSON(http.StatusOK, PointerMoveResponse{Moved: moved, Workspace: toView(w)})
	}
}

// @Summary  Release the pointer
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/pointer/up [post]
func handlePointerUp(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		w, err := svcs.Workspaces.PointerUp(c.Request.Context(), mustSession(c), id)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Click on the empty canvas
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  PointerRequest true "payload"
// @Success  200 {object} CanvasClickResponse
// @Router   /workspaces/{id}/canvas-click [post]
func handleCanvasClick(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req PointerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, ref, placed, err := svcs.Workspaces.CanvasClick(c.Request.Context(), mustSession(c), id, req.Point, req.Rect)
		if err != nil {
			respondErr(c, err)
			return
		}
		resp := CanvasClickResponse{Placed: placed, Workspace: toView(w)}
		if placed {
			resp.Created = &ref
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Arm or disarm a placement mode (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  PlacementRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/placement [post]
func handlePlacement(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req PlacementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.SetPlacement(c.Request.Context(), mustSession(c), id, floorplan.PlacementMode(req.Mode))
		respondWorkspace(c, w, err)
	}
}

// @Summary  Zoom the plan
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  ZoomRequest true "in, out, wheel, pinch-start, pinch-move or pinch-end"
// @Success  200 {object} ZoomResponse
// @Router   /workspaces/{id}/zoom [post]
func handleZoom(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req ZoomRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, handled, err := svcs.Workspaces.Zoom(c.Request.Context(), mustSession(c), id, workspaces.ZoomInput{
			Action:   workspaces.ZoomAction(req.Action),
			DeltaY:   req.DeltaY,
			Modifier: req.Ctrl,
			Distance: req.Distance,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ZoomResponse{Handled: handled, Workspace: toView(w)})
	}
}

// @Summary  Add a seat at the centre of the plan (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  201 {object} CreatedResponse[domain.Seat]
// @Router   /workspaces/{id}/seats [post]
func handleAddSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		w, seat, err := svcs.Workspaces.AddSeat(c.Request.Context(), mustSession(c), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse[domain.Seat]{Created: seat, Workspace: toView(w)})
	}
}

// @Summary  Delete a seat (admin)
// @Tags     workspaces
// @Param    id       path   string  true  "Workspace ID"
// @Param    seat_id  path   string  true  "Seat ID"
// @Param    confirm  query  bool    true  "must be true"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/seats/{seat_id} [delete]
func handleDeleteSeat(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		confirm := c.Query("confirm") == "true"
		w, err := svcs.Workspaces.DeleteSeat(c.Request.Context(), mustSession(c), id, c.Param("seat_id"), confirm)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Add a desk area (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  AddDeskAreaRequest true "top-left corner and name"
// @Success  201 {object} CreatedResponse[domain.DeskArea]
// @Router   /workspaces/{id}/desk-areas [post]
func handleAddDeskArea(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req AddDeskAreaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		at := floorplan.Point{X: req.X, Y: req.Y}
		w, area, err := svcs.Workspaces.AddDeskArea(c.Request.Context(), mustSession(c), id, at, req.Name)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse[domain.DeskArea]{Created: area, Workspace: toView(w)})
	}
}

// @Summary  Add a floor symbol (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  AddSymbolRequest true "type and position"
// @Success  201 {object} CreatedResponse[domain.FloorSymbol]
// @Router   /workspaces/{id}/symbols [post]
func handleAddSymbol(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req AddSymbolRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		at := floorplan.Point{X: req.X, Y: req.Y}
		w, sym, err := svcs.Workspaces.AddSymbol(c.Request.Context(), mustSession(c), id, domain.SymbolKind(req.Type), at)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreatedResponse[domain.FloorSymbol]{Created: sym, Workspace: toView(w)})
	}
}

// @Summary  Resize the office outline (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  ResizeLayoutRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/layout [put]
func handleResizeLayout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req ResizeLayoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.ResizeLayout(c.Request.Context(), mustSession(c), id, req.Width, req.Height)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Save the edited plan (admin)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  200 {object} WorkspaceView
// @Failure  409 {object} ErrorResponse "not editing / save in progress"
// @Failure  502 {object} ErrorResponse
// @Router   /workspaces/{id}/save [post]
func handleSave(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		w, err := svcs.Workspaces.Save(c.Request.Context(), mustSession(c), id)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Open the dialog for a seat
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  OpenDialogRequest true "payload"
// @Success  200 {object} WorkspaceView
// @Failure  409 {object} ErrorResponse "seat not available"
// @Router   /workspaces/{id}/dialog [post]
func handleOpenDialog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req OpenDialogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.OpenDialog(c.Request.Context(), mustSession(c), id, req.SeatID)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Change the dialog's form
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Param    req body  UpdateDialogRequest true "fields to change"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/dialog [put]
func handleUpdateDialog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		var req UpdateDialogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		w, err := svcs.Workspaces.UpdateDialog(c.Request.Context(), mustSession(c), id, booking.Form{
			StartTime:  req.StartTime,
			EndTime:    req.EndTime,
			Recurrence: req.Recurrence,
		})
		respondWorkspace(c, w, err)
	}
}

// @Summary  Close the dialog
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Success  200 {object} WorkspaceView
// @Router   /workspaces/{id}/dialog [delete]
func handleCloseDialog(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		w, err := svcs.Workspaces.CloseDialog(c.Request.Context(), mustSession(c), id)
		respondWorkspace(c, w, err)
	}
}

// @Summary  Book the dialog's seat (idempotent)
// @Tags     workspaces
// @Param    id  path  string  true  "Workspace ID"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} SubmitDialogResponse
// @Failure  409 {object} ErrorResponse "seat taken / idem in progress"
// @Failure  422 {object} ErrorResponse "invalid form"
// @Router   /workspaces/{id}/dialog/submit [post]
func handleSubmitDialog(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := workspaceID(c)
		if !ok {
			return
		}
		sess := mustSession(c)

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemBooking(sess.User.ID, idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusCreated, contentTypeJSON, []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusCreated, contentTypeJSON, []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
				return
			}
		}

		w, b, err := svcs.Workspaces.SubmitDialog(c.Request.Context(), sess, id)
		if err != nil {
			if idemStorageKey != "" {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		resp := SubmitDialogResponse{Booking: b, Workspace: toView(w)}

		if idemStorageKey != "" {
			payload, _ := json.Marshal(resp)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(payload))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusCreated, resp)
	}
}
