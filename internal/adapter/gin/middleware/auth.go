package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/logger"
)

const (
	principalKey = "principal"
	tokenKey     = "access_token"
)

// Authenticator resolves a bearer token to the calling principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Principal, error)
}

// Auth requires a valid access token. Browsers cannot set headers on a websocket
// handshake, so upgrade requests may pass the token as the "token" query parameter.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && websocket.IsWebSocketUpgrade(c.Request) {
			token = c.Query("token")
		}
		if token == "" {
			response.Error(c, apperrors.With(apperrors.ErrUnauthorized, "missing bearer token"))
			return
		}

		p, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Set(tokenKey, token)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), strconv.FormatInt(p.UserID, 10)))
		c.Next()
	}
}

// RequireRoles rejects authenticated callers whose role is not in roles.
func RequireRoles(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := Principal(c)
		if !ok {
			response.Error(c, apperrors.With(apperrors.ErrUnauthorized, "authentication required"))
			return
		}
		if !p.HasRole(roles...) {
			response.Error(c, apperrors.With(apperrors.ErrForbidden, "role %s is not allowed to perform this action", p.Role))
			return
		}
		c.Next()
	}
}

// Principal returns the caller set by Auth.
func Principal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// SetPrincipal stores p on the context; handler tests use it in place of Auth.
func SetPrincipal(c *gin.Context, p auth.Principal) {
	c.Set(principalKey, p)
}

// AccessToken returns the raw token accepted by Auth.
func AccessToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}

// FeatureGate answers 503 for every route of a disabled module.
func FeatureGate(enabled bool, feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			response.Abort(c, http.StatusServiceUnavailable, apperrors.ErrUnavailable.Code(),
				feature+" is currently disabled")
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
