package repository

import (
	"context"
	"encoding/json"
	"time"

	"trac/config"
	"trac/internal/core"
	"trac/internal/database/client"
	"trac/internal/database/fluentd/model"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 API 請求、session 事件與組織統計到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	version       string
}

func NewLogRepository(config *config.Configuration, client client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, version: version}
}

func (repository *LogRepository) LogSessionEvent(ctx context.Context, event model.SessionEventLog) error {
	if event.LoggedAt == "" {
		event.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if event.Version == "" {
		event.Version = repository.version
	}
	return repository.post(ctx, core.FluentdSessionEvent, event)
}

func (repository *LogRepository) LogOrgStats(ctx context.Context, stats model.OrgStatsLog) error {
	if stats.LoggedAt == "" {
		stats.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if stats.Version == "" {
		stats.Version = repository.version
	}
	return repository.post(ctx, core.FluentdOrgStats, stats)
}

func (repository *LogRepository) LogRequest(ctx context.Context, request model.RequestLog) error {
	if request.Version == "" {
		request.Version = repository.version
	}
	return repository.post(ctx, core.FluentdApiRequest, request)
}

func (repository *LogRepository) LogResponse(ctx context.Context, response model.ResponseLog) error {
	if response.Version == "" {
		response.Version = repository.version
	}
	return repository.post(ctx, core.FluentdApiResponse, response)
}

// post 以 json tag 攤平成 map 再送出
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, message any) error {
	b, err := json.Marshal(message)
	if err != nil {
		return err
	}
	var fluentdMessage map[string]any
	if err := json.Unmarshal(b, &fluentdMessage); err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
