package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"trac/config"
	"trac/internal/database/fluentd/model"
	cErr "trac/internal/pkg/error"
	"trac/internal/pkg/response"
	"trac/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureSink struct {
	mu        sync.Mutex
	responses []model.ResponseLog
}

func (s *captureSink) LogResponse(_ context.Context, r model.ResponseLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, r)
	return nil
}

func newEnvelopeRouter(sink *captureSink) *gin.Engine {
	gin.SetMode(gin.TestMode)
	conf := &config.Configuration{App: config.App{Name: "trac", Version: "test"}}
	trace := &telemetry.Trace{}
	router := gin.New()
	router.Use(
		NewRecovery(zap.NewNop(), trace, conf, sink).ErrorHandler(),
		NewResponse(zap.NewNop(), trace, conf, sink).FormatHandler(),
	)
	router.GET("/ok", func(c *gin.Context) {
		response.Success(c, gin.H{"orgId": "A"})
	})
	router.GET("/missing", func(c *gin.Context) {
		response.AbortWithError(c, cErr.NotFound("employee not found"))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func serve(t *testing.T, router *gin.Engine, path string) (int, response.Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestResponse_WrapsSuccess(t *testing.T) {
	sink := &captureSink{}
	code, body := serve(t, newEnvelopeRouter(sink), "/ok")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "OK", body.Message)
	assert.NotEmpty(t, body.RequestID)
	assert.Equal(t, map[string]any{"orgId": "A"}, body.Data)
	require.Len(t, sink.responses, 1)
	assert.Equal(t, http.StatusOK, sink.responses[0].StatusCode)
}

func TestRecovery_AppError(t *testing.T) {
	sink := &captureSink{}
	code, body := serve(t, newEnvelopeRouter(sink), "/missing")

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, cErr.NOT_FOUND, body.Code)
	assert.Equal(t, "employee not found", body.Description)
	require.Len(t, sink.responses, 1)
	assert.Equal(t, "not-found", sink.responses[0].Error)
}

func TestRecovery_Panic(t *testing.T) {
	sink := &captureSink{}
	code, body := serve(t, newEnvelopeRouter(sink), "/panic")

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, cErr.INTERNAL_ERROR, body.Code)
	require.Len(t, sink.responses, 1)
	assert.Equal(t, "boom", sink.responses[0].Error)
}
