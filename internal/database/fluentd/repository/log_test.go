package repository

import (
	"context"
	"testing"

	"trac/config"
	"trac/internal/database/fluentd/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedPost struct {
	tag     string
	message any
}

type captureClient struct{ posts []capturedPost }

func (c *captureClient) Post(_ context.Context, tag string, message any) error {
	c.posts = append(c.posts, capturedPost{tag: tag, message: message})
	return nil
}

func (c *captureClient) Close() error { return nil }

func TestLogRepository_LogSessionEvent(t *testing.T) {
	capture := &captureClient{}
	repository := NewLogRepository(&config.Configuration{App: config.App{Version: "2.1.0"}}, capture)

	require.NoError(t, repository.LogSessionEvent(context.Background(), model.SessionEventLog{
		Type:      "sign_in",
		SessionID: "s-1",
		ActorID:   "owner",
		EventTS:   "2024-05-01T10:00:00Z",
	}))

	require.Len(t, capture.posts, 1)
	assert.Equal(t, "session_event", capture.posts[0].tag)
	message, ok := capture.posts[0].message.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sign_in", message["type"])
	assert.Equal(t, "2.1.0", message["version"])
	assert.NotEmpty(t, message["logged_at"])
	assert.NotContains(t, message, "org_id")
}

func TestLogRepository_LogOrgStatsDefaultsVersion(t *testing.T) {
	capture := &captureClient{}
	repository := NewLogRepository(&config.Configuration{}, capture)

	require.NoError(t, repository.LogOrgStats(context.Background(), model.OrgStatsLog{OrgID: "A", ActiveEmployees: 3}))

	require.Len(t, capture.posts, 1)
	assert.Equal(t, "org_stats", capture.posts[0].tag)
	message := capture.posts[0].message.(map[string]any)
	assert.Equal(t, "1.0.0", message["version"])
	assert.Equal(t, float64(3), message["active_employees"])
}

func TestLogRepository_LogResponseOmitsEmptyError(t *testing.T) {
	capture := &captureClient{}
	repository := NewLogRepository(&config.Configuration{}, capture)

	require.NoError(t, repository.LogResponse(context.Background(), model.ResponseLog{RequestID: "r-1", StatusCode: 200}))

	require.Len(t, capture.posts, 1)
	assert.Equal(t, "api_response", capture.posts[0].tag)
	message := capture.posts[0].message.(map[string]any)
	assert.NotContains(t, message, "error")
	assert.Equal(t, float64(200), message["status_code"])
}
