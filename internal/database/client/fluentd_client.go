package client

import (
	"context"

	"trac/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

// Client is a minimal interface to allow mocking in tests.
type Client interface {
	Post(ctx context.Context, tag string, message any) error
	Close() error
}

// FluentdClient implements Client using fluent-logger-golang.
type FluentdClient struct {
	client    *fluent.Fluent
	tagPrefix string
}

// NewFluentdClient 建立 forward client；未設定 host 時回傳 NoopClient
func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (Client, func(), error) {
	if !config.Fluentd.Enabled() {
		logger.Info("fluentd disabled, using noop client")
		return &NoopClient{}, func() {}, nil
	}

	prefix := config.Fluentd.TagPrefixOrDefault()
	fluentClient, err := fluent.New(fluent.Config{
		FluentHost: config.Fluentd.Host,
		FluentPort: config.Fluentd.Port,
		Timeout:    config.Fluentd.TimeoutDuration(),
		TagPrefix:  prefix,
		Async:      !config.Fluentd.Sync,
		MaxRetry:   config.Fluentd.MaxRetry,
	})
	if err != nil {
		logger.Error("failed to connect to Fluentd", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to Fluentd", zap.String("tagPrefix", prefix))

	c := &FluentdClient{client: fluentClient, tagPrefix: prefix}
	cleanup := func() {
		logger.Info("closing the Fluentd resources")
		if err := c.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return c, cleanup, nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Post sends a record to Fluentd with the given (possibly-suffixed) tag.
func (c *FluentdClient) Post(ctx context.Context, tag string, message any) error {
	// fluent-logger-golang 不支援 ctx；保留參數以維持介面一致
	return c.client.Post(tag, message)
}

// --------------------
// Noop client (disabled mode)
// --------------------

type NoopClient struct{}

func (n *NoopClient) Post(ctx context.Context, tag string, message any) error { return nil }
func (n *NoopClient) Close() error                                            { return nil }
