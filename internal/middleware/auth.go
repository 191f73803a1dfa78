package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/zen-task-api/internal/auth"
	"github.com/yukikurage/zen-task-api/internal/constants"
	apierrors "github.com/yukikurage/zen-task-api/internal/errors"
	"github.com/yukikurage/zen-task-api/internal/services"
)

// RequireAuth resolves the caller from a bearer token, falling back to the
// token saved in the session at login.
func RequireAuth(authService *services.AuthService, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if v, ok := sessions.Default(c).Get(constants.SessionKeyToken).(string); ok {
				token = v
			}
		}

		if token == "" {
			apierrors.Unauthorized(c, "")
			return
		}

		principal, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidToken):
				apierrors.InvalidToken(c, err.Error())
			case errors.Is(err, services.ErrForbiddenAccess):
				apierrors.Forbidden(c, err.Error())
			default:
				logger.Error().Err(err).Msg("failed to authenticate request")
				apierrors.InternalError(c, "")
			}
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the authenticated caller from context
func GetPrincipal(c *gin.Context) (*services.Principal, bool) {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*services.Principal)
	return principal, ok && principal != nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
