package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "s3cret"

func newTestAuth(issuer string) *Auth {
	conf := &config.Configuration{Auth: config.Auth{JWTSecret: testSecret, Issuer: issuer}}
	return NewAuth(zap.NewNop(), &telemetry.Trace{}, conf)
}

func TestAuth_Verify(t *testing.T) {
	now := time.Now()
	actor := core.Actor{ID: "owner", Email: "o@example.com", Name: "Olive"}

	valid, err := IssueToken(testSecret, "idp", actor, time.Hour, now)
	require.NoError(t, err)
	wrongSecret, err := IssueToken("other", "idp", actor, time.Hour, now)
	require.NoError(t, err)
	wrongIssuer, err := IssueToken(testSecret, "elsewhere", actor, time.Hour, now)
	require.NoError(t, err)
	expired, err := IssueToken(testSecret, "idp", actor, time.Hour, now.Add(-2*time.Hour))
	require.NoError(t, err)
	noSubject, err := IssueToken(testSecret, "idp", core.Actor{Email: "x@example.com"}, time.Hour, now)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{"valid", valid, false},
		{"wrong secret", wrongSecret, true},
		{"wrong issuer", wrongIssuer, true},
		{"expired", expired, true},
		{"no subject", noSubject, true},
		{"garbage", "not.a.jwt", true},
	}
	auth := newTestAuth("idp")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.Verify(tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, actor, got)
		})
	}
}

func TestAuth_VerifyWithoutSecret(t *testing.T) {
	auth := NewAuth(zap.NewNop(), &telemetry.Trace{}, &config.Configuration{})
	token, err := IssueToken(testSecret, "", core.Actor{ID: "owner"}, time.Hour, time.Now())
	require.NoError(t, err)
	_, err = auth.Verify(token)
	assert.Error(t, err)
}

func TestAuth_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := newTestAuth("")

	recovery := NewRecovery(zap.NewNop(), &telemetry.Trace{}, &config.Configuration{}, nil)
	router := gin.New()
	router.Use(recovery.ErrorHandler(), auth.Handler())
	router.GET("/api/me", func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, actor.ID)
	})

	token, err := IssueToken(testSecret, "", core.Actor{ID: "owner"}, time.Hour, time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "40100")
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer   abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
