package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	TokenKey  contextKey = "token"

	requestUserKey contextKey = "request_user"
)

// RequestUser is set on the context by outer middleware and filled by
// SetUserContext once the request is authenticated
type RequestUser struct {
	ID uuid.UUID
}

func WithRequestUser(ctx context.Context) (context.Context, *RequestUser) {
	holder := &RequestUser{}
	return context.WithValue(ctx, requestUserKey, holder), holder
}

// RequestUserID reports the authenticated user as seen from any middleware layer
func RequestUserID(ctx context.Context) (uuid.UUID, bool) {
	if userID, ok := GetUserIDFromContext(ctx); ok {
		return userID, true
	}
	if holder, ok := ctx.Value(requestUserKey).(*RequestUser); ok && holder.ID != uuid.Nil {
		return holder.ID, true
	}
	return uuid.Nil, false
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok && role != ""
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	if holder, ok := ctx.Value(requestUserKey).(*RequestUser); ok {
		holder.ID = userID
	}
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetTokenFromContext returns the bearer token the request was authenticated with
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
