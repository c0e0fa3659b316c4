package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDenyList(t *testing.T) *RedisDenyList {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisDenyList(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, nil)

	signed, issued, err := tokens.Issue("user-1", "a@b.c", RoleOwner)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)

	id, err := tokens.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.ID)
	assert.Equal(t, RoleOwner, id.Role)
	assert.Equal(t, "a@b.c", id.Email)
}

func TestTokens_VerifyRejectsWrongSecretAndExpired(t *testing.T) {
	signed, _, err := NewTokens("secret", time.Hour, nil).Issue("user-1", "", RoleOwner)
	require.NoError(t, err)

	_, err = NewTokens("other", time.Hour, nil).Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokens("secret", time.Minute, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue("user-1", "", RoleOwner)
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour, nil).Verify(context.Background(), old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_EmptySecret(t *testing.T) {
	tokens := NewTokens("", time.Hour, nil)

	_, _, err := tokens.Issue("admin-1", "", RoleAdmin)
	assert.ErrorIs(t, err, ErrNoSecret)

	signed, _, err := NewTokens("secret", time.Hour, nil).Issue("admin-1", "", RoleAdmin)
	require.NoError(t, err)
	_, err = tokens.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_RevokedToken(t *testing.T) {
	deny := newDenyList(t)
	tokens := NewTokens("secret", time.Hour, deny)
	ctx := context.Background()

	signed, issued, err := tokens.Issue("user-1", "", RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, deny.Revoke(ctx, issued.TokenID, issued.Expires))

	_, err = tokens.Verify(ctx, signed)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRequiredAndRequireRole(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, nil)
	ownerToken, _, _ := tokens.Issue("owner-1", "", RoleOwner)
	adminToken, _, _ := tokens.Issue("admin-1", "", RoleAdmin)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := FromContext(r.Context())
		w.Write([]byte(id.ID))
	})
	handler := Required(tokens)(RequireRole(RoleAdmin)(ok))

	tests := []struct {
		name         string
		header       string
		wantCode     int
		wantRedirect string
	}{
		{name: "missing token", header: "", wantCode: http.StatusUnauthorized, wantRedirect: "/login"},
		{name: "garbage token", header: "Bearer nope", wantCode: http.StatusUnauthorized, wantRedirect: "/login"},
		{name: "owner on admin route", header: "Bearer " + ownerToken, wantCode: http.StatusForbidden, wantRedirect: "/dashboard"},
		{name: "admin", header: "Bearer " + adminToken, wantCode: http.StatusOK},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/restaurants", nil)
			if testCase.header != "" {
				req.Header.Set("Authorization", testCase.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, testCase.wantCode, rec.Code)
			if testCase.wantRedirect != "" {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, testCase.wantRedirect, body["redirect"])
			} else {
				assert.Equal(t, "admin-1", rec.Body.String())
			}
		})
	}
}

func TestOptional_PassesThroughWithoutToken(t *testing.T) {
	tokens := NewTokens("secret", time.Hour, nil)
	var seen bool
	handler := Optional(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/menus/r1?token=bad", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, seen)
}
