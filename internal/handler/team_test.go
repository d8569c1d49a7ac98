package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/client"
	"trac/internal/database/mongodb/model"
	redisRepo "trac/internal/database/redis/repository"
	"trac/internal/middleware"
	cErr "trac/internal/pkg/error"
	"trac/internal/pkg/response"
	"trac/internal/service"
	"trac/internal/snapshot"
	"trac/internal/telemetry"
	"trac/internal/tracking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const handlerSecret = "handler-secret"

type orgProfiles struct {
	src   *snapshot.MemorySource
	orgID string
}

func (p orgProfiles) EnsureProfile(_ context.Context, actor core.Actor) (*model.User, error) {
	user := model.User{ID: actor.ID, OwnedOrgID: p.orgID}
	return &user, p.src.Set(core.MongoCollectionUsers, actor.ID, user)
}

type apiFixture struct {
	router *gin.Engine
	src    *snapshot.MemorySource
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conf := &config.Configuration{
		Auth:     config.Auth{JWTSecret: handlerSecret},
		Tracking: config.Tracking{Timezone: "UTC"},
	}
	logger := zap.NewNop()
	trace := &telemetry.Trace{}

	src := snapshot.NewMemorySource()
	t.Cleanup(src.Close)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	manager, cleanup := tracking.NewManager(conf, logger, src, orgProfiles{src: src, orgID: "A"}, nil, nil, trace,
		tracking.WithClock(func() time.Time { return now }))
	t.Cleanup(cleanup)

	stats := redisRepo.NewStatsRepository(conf, trace, &client.RedisClient{})
	teamService := service.NewTeamService(trace, logger, manager, stats)
	sessionHandler := NewSessionHandler(trace, teamService)
	teamHandler := NewTeamHandler(trace, teamService)

	router := gin.New()
	router.Use(
		middleware.NewRecovery(logger, trace, conf, nil).ErrorHandler(),
		middleware.NewResponse(logger, trace, conf, nil).FormatHandler(),
	)
	api := router.Group("/api", middleware.NewAuth(logger, trace, conf).Handler())
	api.POST("/session", sessionHandler.SignIn)
	api.DELETE("/session", sessionHandler.SignOut)
	api.GET("/org", teamHandler.Organization)
	api.GET("/org/stats", teamHandler.Stats)
	api.GET("/org/stats/cached", teamHandler.CachedStats)
	api.GET("/org/employees", teamHandler.Employees)
	api.GET("/employees/:id/detail", teamHandler.EmployeeDetail)

	return &apiFixture{router: router, src: src}
}

func (f *apiFixture) do(t *testing.T, method, path, actorID string) (int, response.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if actorID != "" {
		token, err := middleware.IssueToken(handlerSecret, "", core.Actor{ID: actorID}, time.Hour, time.Now())
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestTeamHandler_RequiresToken(t *testing.T) {
	f := newAPIFixture(t)
	code, body := f.do(t, http.MethodGet, "/api/org", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, cErr.UNAUTHORIZED, body.Code)
}

func TestTeamHandler_SessionLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	require.NoError(t, f.src.Set(core.MongoCollectionOrganizations, "A", model.Organization{Name: "Acme"}))

	code, body := f.do(t, http.MethodGet, "/api/org", "owner")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, cErr.NO_SESSION, body.Code)

	code, body = f.do(t, http.MethodPost, "/api/session", "owner")
	require.Equal(t, http.StatusOK, code)
	data := body.Data.(map[string]any)
	assert.Equal(t, "A", data["orgId"])
	assert.Equal(t, true, data["created"])
	f.src.Flush()

	code, body = f.do(t, http.MethodGet, "/api/org", "owner")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Acme", body.Data.(map[string]any)["orgName"])

	code, _ = f.do(t, http.MethodGet, "/api/org/stats", "owner")
	assert.Equal(t, http.StatusOK, code)

	code, body = f.do(t, http.MethodGet, "/api/org/stats/cached", "owner")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, cErr.SERVICE_UNAVAILABLE, body.Code)

	code, _ = f.do(t, http.MethodDelete, "/api/session", "owner")
	assert.Equal(t, http.StatusOK, code)
	code, _ = f.do(t, http.MethodDelete, "/api/session", "owner")
	assert.Equal(t, http.StatusConflict, code)
}

func TestTeamHandler_EmployeeDetailValidation(t *testing.T) {
	f := newAPIFixture(t)
	code, _ := f.do(t, http.MethodPost, "/api/session", "owner")
	require.Equal(t, http.StatusOK, code)
	f.src.Flush()

	code, body := f.do(t, http.MethodGet, "/api/employees/owner/detail?month=2024-13", "owner")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, cErr.BAD_REQUEST_QUERY, body.Code)
	assert.Equal(t, "month must be formatted as yyyy-MM", body.Description)

	code, body = f.do(t, http.MethodGet, "/api/employees/stranger/detail", "owner")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, cErr.NOT_FOUND, body.Code)
}
