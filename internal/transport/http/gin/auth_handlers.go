package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/deskgo/internal/service"
	"github.com/kirinyoku/deskgo/internal/session"
)

func setSessionCookie(c *gin.Context, sess *session.Session, opts Options) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, int(opts.SessionTTL.Seconds()), "/", "", opts.CookieSecure, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// @Summary  Log in
// @Tags     auth
// @Param    req body  LoginRequest true "credentials"
// @Success  200 {object} LoginResponse
// @Failure  401 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /auth/login [post]
func handleLogin(svcs *service.Services, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		sess, err := svcs.Auth.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
		if err != nil {
			respondErr(c, err)
			return
		}

		setSessionCookie(c, sess, opts)
		c.Header(sessionHeader, sess.ID)

		resp := LoginResponse{SessionID: sess.ID, User: sess.User}
		if !sess.ExpiresAt.IsZero() {
			resp.ExpiresAt = &sess.ExpiresAt
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary  Log out
// @Tags     auth
// @Success  204
// @Router   /auth/logout [post]
func handleLogout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		svcs.Auth.Logout(c.Request.Context(), mustSession(c))
		clearSessionCookie(c)
		c.Status(http.StatusNoContent)
	}
}

// @Summary  Refresh the access token
// @Tags     auth
// @Success  200 {object} domain.User
// @Failure  401 {object} ErrorResponse
// @Router   /auth/refresh [post]
func handleRefresh(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Auth.Refresh(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// @Summary  Current user profile
// @Tags     auth
// @Success  200 {object} domain.User
// @Router   /auth/me [get]
func handleMe(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Auth.Me(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// @Summary  Verify the session's token with the API
// @Tags     auth
// @Success  200 {object} domain.User
// @Router   /auth/verify [get]
func handleVerify(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svcs.Auth.Verify(c.Request.Context(), mustSession(c))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
