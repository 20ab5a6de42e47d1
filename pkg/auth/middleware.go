package auth

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

type contextKey string

const (
	tokenHeader            = "Authorization"
	tokenPrefix            = "Bearer "
	IdentityKey contextKey = "identity"
)

// NewAuthInterceptor creates a ConnectRPC interceptor for authentication.
// It rejects requests without a valid bearer token and puts the caller
// identity into the context.
func NewAuthInterceptor(signer *Signer) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			authHeader := req.Header().Get(tokenHeader)
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("missing authorization header"))
			}

			if !strings.HasPrefix(authHeader, tokenPrefix) {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid authorization header format"))
			}

			token := strings.TrimPrefix(authHeader, tokenPrefix)
			claims, err := signer.ValidateToken(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, errors.New("invalid or expired token"))
			}

			identity, err := claims.Identity()
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			return next(WithIdentity(ctx, identity), req)
		}
	}
}

// WithIdentity returns a context carrying the caller identity
func WithIdentity(ctx context.Context, identity uuid.UUID) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// GetIdentity retrieves the caller identity from the context.
func GetIdentity(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IdentityKey).(uuid.UUID)
	return id, ok
}
