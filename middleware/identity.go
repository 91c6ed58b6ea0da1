package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/paradoks/clubhub/sessions"
	"github.com/paradoks/clubhub/utils"
)

const identityKey = "identity"

// Identity resolves the caller from the session cookies of the given services.
// Services are tried in order and the first valid session wins, so pass the
// user service before the club service. Requests without a valid session
// continue anonymously; handlers decide whether that is allowed.
func Identity(logger *slog.Logger, services ...*sessions.Service) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		for _, svc := range services {
			kind := svc.Kind()

			token, err := c.Cookie(kind.CookieName)
			if err != nil || token == "" {
				continue
			}

			sess, err := svc.Validate(c.Request.Context(), token)
			if err != nil {
				logger.ErrorContext(c.Request.Context(), "session validation failed",
					"session_kind", kind.Name,
					"error", err,
				)
				utils.AbortResponse(c, http.StatusInternalServerError, "Internal server error", "Session lookup failed")
				return
			}
			if sess == nil {
				continue
			}

			id := sessions.Identity{
				Kind:        kind.Name,
				PrincipalID: sess.PrincipalID,
				SessionID:   sess.ID,
				Token:       sess.Token,
			}
			c.Request = c.Request.WithContext(sessions.WithIdentity(c.Request.Context(), id))
			c.Set(identityKey, id)
			break
		}

		c.Next()
	}
}

// CurrentIdentity returns the identity bound by Identity, if any.
func CurrentIdentity(c *gin.Context) (sessions.Identity, bool) {
	if v, ok := c.Get(identityKey); ok {
		id, ok := v.(sessions.Identity)
		return id, ok
	}
	return sessions.IdentityFromContext(c.Request.Context())
}

func RequireClub() gin.HandlerFunc {
	return requireKind(sessions.ClubKind.Name)
}

func RequireUser() gin.HandlerFunc {
	return requireKind(sessions.UserKind.Name)
}

func requireKind(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || id.Kind != kind {
			utils.AbortResponse(c, http.StatusUnauthorized, "Authentication required", "No active session found")
			return
		}
		c.Next()
	}
}
