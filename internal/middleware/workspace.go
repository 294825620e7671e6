package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// WorkspaceIDKey is the context key for the request's workspace ID
	WorkspaceIDKey contextKey = "workspace_id"

	// WorkspaceHeader carries the workspace ID resolved by the platform gateway
	WorkspaceHeader = "X-Workspace-ID"
)

// Workspace reads the workspace ID forwarded by the gateway and stores it in
// the request context. Requests without a valid ID are rejected.
func Workspace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(WorkspaceHeader)
			if raw == "" {
				return unauthorizedError(c, "missing "+WorkspaceHeader+" header")
			}

			id, err := strconv.ParseInt(raw, 10, 32)
			if err != nil || id <= 0 {
				log.Debug().Str("workspace_header", raw).Msg("Invalid workspace header")
				return badRequestError(c, "invalid "+WorkspaceHeader+" header")
			}

			ctx := context.WithValue(c.Request().Context(), WorkspaceIDKey, int32(id))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetWorkspaceID extracts the workspace ID from the context
func GetWorkspaceID(c echo.Context) int32 {
	if id, ok := c.Request().Context().Value(WorkspaceIDKey).(int32); ok {
		return id
	}
	return 0
}
