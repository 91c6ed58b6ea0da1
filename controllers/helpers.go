package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/middleware"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/utils"
)

// CookieConfig controls the session cookies issued on login.
type CookieConfig struct {
	Options sessions.CookieOptions
	MaxAge  time.Duration
}

func (cc CookieConfig) maxAge() time.Duration {
	if cc.MaxAge <= 0 {
		return 24 * time.Hour
	}
	return cc.MaxAge
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		utils.SendResponse(c, http.StatusBadRequest, "Invalid request", nil, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// principalID returns the id bound by the identity middleware. Routes using it
// are guarded by RequireClub or RequireUser.
func principalID(c *gin.Context) uint {
	id, _ := middleware.CurrentIdentity(c)
	return id.PrincipalID
}

// listSessions answers with the caller's active sessions of svc's kind.
func listSessions(c *gin.Context, svc *sessions.Service) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.SendResponse(c, http.StatusUnauthorized, "Not authenticated", nil, "No active session found")
		return
	}

	active, err := svc.ActiveSessions(c.Request.Context(), id.PrincipalID)
	if err != nil {
		utils.SendError(c, "Failed to fetch sessions", err)
		return
	}

	sessionResponses := make([]SessionResponse, 0, len(active))
	for _, s := range active {
		sessionResponses = append(sessionResponses, SessionResponse{
			ID:             s.ID,
			CreatedAt:      s.CreatedAt,
			ExpiresAt:      s.ExpiresAt,
			CurrentSession: s.ID == id.SessionID,
		})
	}

	utils.SendResponse(c, http.StatusOK, "Active sessions retrieved successfully", map[string]interface{}{
		"sessions":              sessionResponses,
		"total_active_sessions": len(sessionResponses),
	}, nil)
}

// logout ends the caller's session of svc's kind and clears its cookie.
func logout(c *gin.Context, svc *sessions.Service, cookie CookieConfig) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.SendResponse(c, http.StatusBadRequest, "Logout failed", nil, "No session found")
		return
	}

	if err := svc.InvalidateSession(c.Request.Context(), id.Token); err != nil {
		utils.SendError(c, "Logout failed", err)
		return
	}

	sessions.ClearCookie(c.Writer, svc.Kind(), cookie.Options)
	utils.SendResponse(c, http.StatusOK, "Logged out successfully", nil, nil)
}
