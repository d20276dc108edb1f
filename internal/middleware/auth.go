package middleware

import (
	"fmt"
	"time"

	"github.com/bazario/marketplace-api/internal/errs"
	"github.com/bazario/marketplace-api/internal/server"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AuthTokenHeader carries the client's JWT.
const AuthTokenHeader = "x-auth-token"

// AuthMiddleware holds the app Server so middleware can access shared
// deps like Logger and Config.
type AuthMiddleware struct {
	server *server.Server
}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware(s *server.Server) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
	}
}

// RequireAuth enforces authentication on a route group.
//
// It reads the x-auth-token header, verifies it as an HMAC-signed JWT
// using the configured secret, and stores the token subject in Echo
// context as the user id. Missing or invalid tokens short-circuit the
// pipeline with 401 before any validator or handler runs.
func (auth *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		tokenString := c.Request().Header.Get(AuthTokenHeader)
		if tokenString == "" {
			return errs.NewUnauthorizedError("Authentication token is required", false)
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(auth.server.Config.Auth.SecretKey), nil
		})
		if err != nil || !token.Valid {
			auth.server.Logger.Warn().
				Err(err).
				Str("function", "RequireAuth").
				Str("request_id", GetRequestID(c)).
				Msg("rejected invalid auth token")

			return errs.NewUnauthorizedError("Invalid or expired token", false)
		}

		userID, err := token.Claims.GetSubject()
		if err != nil || userID == "" {
			return errs.NewUnauthorizedError("Invalid token claims", false)
		}

		c.Set(UserIDKey, userID)

		auth.server.Logger.Debug().
			Str("function", "RequireAuth").
			Str("user_id", userID).
			Str("request_id", GetRequestID(c)).
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}
