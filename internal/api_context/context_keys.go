package api_context

import (
	"context"
)

type ctxKey string

const (
	TitleKey      ctxKey = "title"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
)

// TitleFromContext returns the raw title path parameter stashed by the title middleware.
func TitleFromContext(ctx context.Context) (string, bool) {
	title, ok := ctx.Value(TitleKey).(string)
	return title, ok && title != ""
}

// AuthUserIDFromContext returns the token subject of the authenticated caller.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}
