package httpx

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/isaacgyampoh/recipe-saver/internal/domain/auth"
)

func TestSessionContextRoundTrip(t *testing.T) {
	session := &domainauth.Session{
		ID:          "sess-1",
		UserID:      "user-1",
		Email:       "cook@example.com",
		DisplayName: "Cook",
		ExpiresAt:   time.Now().Add(time.Hour),
	}

	ctx := SetSessionInContext(context.Background(), session)

	got, ok := GetUserSessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, session, got)
	assert.Equal(t, session, GetSessionFromContext(ctx))
	assert.Equal(t, "user-1", SessionUserID(ctx))
}

func TestSetSessionInContext_NilSession(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, SetSessionInContext(ctx, nil))
}

func TestSessionContext_Absent(t *testing.T) {
	ctx := context.Background()

	got, ok := GetUserSessionFromContext(ctx)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Nil(t, GetSessionFromContext(ctx))
	assert.Empty(t, SessionUserID(ctx))
}
