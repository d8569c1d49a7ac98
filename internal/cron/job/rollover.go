package job

import (
	"time"

	"trac/internal/tracking"

	"go.uber.org/zap"
)

// Rollover 換日時重新訂閱今日班次
type Rollover interface {
	RolloverAll() int
}

type RolloverJob struct {
	logger  *zap.Logger
	manager Rollover
}

func NewRolloverJob(logger *zap.Logger, manager *tracking.Manager) *RolloverJob {
	return newRolloverJob(logger, manager)
}

func newRolloverJob(logger *zap.Logger, manager Rollover) *RolloverJob {
	return &RolloverJob{logger: logger, manager: manager}
}

func (j *RolloverJob) Run() {
	start := time.Now()
	rolled := j.manager.RolloverAll()
	j.logger.Info("day rollover finished",
		zap.Int("sessions", rolled),
		zap.Duration("duration", time.Since(start)),
	)
}
