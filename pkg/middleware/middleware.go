package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "
)

type AccessVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
	IdentifyAccessToken(token string) (*auth.Claims, error)
}

// JwtAuthentication rejects the request with 401 unless it carries a valid access token,
// then stores the caller identity in the request context.
func JwtAuthentication(verifier AccessVerifier) echo.MiddlewareFunc {
	return jwtMiddleware(verifier.VerifyAccessToken)
}

// JwtIdentification is JwtAuthentication that lets an expired access token through.
// The token signature is still checked. Only for routes that re-authenticate the
// caller by other means, such as the refresh cookie.
func JwtIdentification(verifier AccessVerifier) echo.MiddlewareFunc {
	return jwtMiddleware(verifier.IdentifyAccessToken)
}

func jwtMiddleware(verify func(token string) (*auth.Claims, error)) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := bearerToken(c.Request().Header.Get(AuthorizationHeader))
			if err != nil {
				return err
			}

			claims, err := verify(tokenStr)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					return echo.NewHTTPError(http.StatusUnauthorized, "TokenExpired")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "JwtAccessDenied")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), claims.UserID, claims.Role)))
			return next(c)
		}
	}
}

func bearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
	}
	if !strings.HasPrefix(authorization, bearer) {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(authorization, bearer))
	if tokenStr == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
	}
	return tokenStr, nil
}

// AuthorizeRoles must be chained after JwtAuthentication.
func AuthorizeRoles(roles ...auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			for _, r := range roles {
				if id.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}

func RequirePermission(p auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
			}
			if !id.Role.Can(p) {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
