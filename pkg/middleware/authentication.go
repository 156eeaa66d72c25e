package middleware

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/GabrielASF2/lead-cental/pkg/auth"
	utils "github.com/GabrielASF2/lead-cental/pkg/context"
	"github.com/GabrielASF2/lead-cental/pkg/tracing"
)

func Authentication(logger ectologger.Logger, issuer *auth.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			ctx, span := tracing.StartSpan(ctx, "middleware.Authentication")
			defer span.End()

			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				logger.WithContext(ctx).Warn("request is missing bearer token")
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer")
			}

			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := issuer.Validate(raw)
			if err != nil {
				logger.WithContext(ctx).WithError(err).Warn("token is invalid")
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			ctx = utils.SetUserID(ctx, claims.Subject)
			ctx = utils.SetUserRole(ctx, claims.Role)

			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
