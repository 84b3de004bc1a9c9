package auth

import "context"

type contextKey int

const identityKey contextKey = iota + 1

type Identity struct {
	UserID int64
	Role   Role
}

func SetAuthContext(ctx context.Context, userID int64, role Role) context.Context {
	return context.WithValue(ctx, identityKey, Identity{UserID: userID, Role: role})
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
