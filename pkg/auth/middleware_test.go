package auth

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthInterceptor(t *testing.T) {
	privPEM, pubPEM := generateTestKeys(t)
	signer, err := NewSigner(privPEM, pubPEM, "test-issuer")
	require.NoError(t, err)

	identity := uuid.New()
	token, err := signer.GenerateToken(identity, DefaultTokenTTL)
	require.NoError(t, err)

	interceptor := NewAuthInterceptor(signer)
	handler := interceptor(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		got, ok := GetIdentity(ctx)
		assert.True(t, ok)
		assert.Equal(t, identity, got)
		return connect.NewResponse(&struct{}{}), nil
	})

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{name: "valid token", header: "Bearer " + token},
		{name: "missing header", header: "", wantErr: true},
		{name: "missing bearer prefix", header: token, wantErr: true},
		{name: "garbage token", header: "Bearer garbage", wantErr: true},
		{
			name: "subject is not an identity",
			header: "Bearer " + signWith(t, privPEM, &Claims{RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				Issuer:    "test-issuer",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(DefaultTokenTTL)),
			}}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&struct{}{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := handler(context.Background(), req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetIdentity_Missing(t *testing.T) {
	_, ok := GetIdentity(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), uuid.Nil)
	id, ok := GetIdentity(ctx)
	assert.True(t, ok)
	assert.Equal(t, uuid.Nil, id)
}
