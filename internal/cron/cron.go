package cron

import (
	"context"

	"trac/config"
	"trac/internal/cron/job"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, job.NewRolloverJob)

type Cron struct {
	logger      *zap.Logger
	server      *cron.Cron
	rolloverJob *job.RolloverJob
	rolloverAt  string
}

// NewCron 排程依追蹤時區執行，換日判斷與日期前綴一致
func NewCron(conf *config.Configuration, logger *zap.Logger, rolloverJob *job.RolloverJob) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(conf.Tracking.Location()),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	return &Cron{
		logger:      logger,
		server:      server,
		rolloverJob: rolloverJob,
		rolloverAt:  conf.Tracking.RolloverSpecOrDefault(),
	}
}

func (c *Cron) Run() error {
	if _, err := c.server.AddFunc(c.rolloverAt, c.rolloverJob.Run); err != nil {
		return err
	}
	c.logger.Info("rollover job scheduled", zap.String("spec", c.rolloverAt))

	c.server.Start()
	return nil
}

// Stop 等待執行中的 job 結束或 ctx 逾時
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
