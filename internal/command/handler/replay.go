package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"trac/config"
	"trac/internal/aggregate"
	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/dto"
	"trac/internal/fixture"
	"trac/internal/snapshot"
	"trac/internal/tracking"

	"go.uber.org/zap"
)

// ReplayOptions replay 子命令參數
type ReplayOptions struct {
	FixturePath string
	ActorID     string
	At          string // RFC3339，空白代表現在
	EmployeeID  string // 若指定則一併輸出明細
}

// ReplayReport replay 的輸出
type ReplayReport struct {
	OrgID     string                       `json:"orgId"`
	Day       string                       `json:"day"`
	Stats     aggregate.Stats              `json:"stats"`
	Employees []aggregate.EmployeeSnapshot `json:"employees"`
	Workforce aggregate.Workforce          `json:"workforce"`
	Detail    *aggregate.Detail            `json:"detail,omitempty"`
}

// ReplayHandler 將 fixture 載入記憶體快照來源，以指定 actor 登入後輸出統計
type ReplayHandler struct {
	conf   *config.Configuration
	logger *zap.Logger
}

func NewReplayHandler(conf *config.Configuration, logger *zap.Logger) *ReplayHandler {
	return &ReplayHandler{conf: conf, logger: logger}
}

func (handler *ReplayHandler) Replay(ctx context.Context, out io.Writer, opts ReplayOptions) error {
	report, err := handler.Run(ctx, opts)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (handler *ReplayHandler) Run(ctx context.Context, opts ReplayOptions) (*ReplayReport, error) {
	if opts.ActorID == "" {
		return nil, fmt.Errorf("actor is required")
	}
	now := time.Now()
	if opts.At != "" {
		at, err := time.Parse(time.RFC3339, opts.At)
		if err != nil {
			return nil, fmt.Errorf("parse --at: %w", err)
		}
		now = at
	}

	f, err := fixture.Load(opts.FixturePath)
	if err != nil {
		return nil, err
	}
	src := snapshot.NewMemorySource()
	defer src.Close()
	if err := f.ApplyTo(src); err != nil {
		return nil, err
	}

	manager, cleanup := tracking.NewManager(handler.conf, handler.logger, src, memoryProfiles{src: src}, nil, nil, nil,
		tracking.WithClock(func() time.Time { return now }))
	defer cleanup()

	session, _, err := manager.SignIn(ctx, core.Actor{ID: opts.ActorID})
	if err != nil {
		return nil, err
	}
	src.Flush()

	report := &ReplayReport{
		OrgID:     session.OrgID(),
		Day:       session.Day(),
		Stats:     session.Stats(),
		Employees: session.Employees(),
		Workforce: session.Workforce(),
	}
	if opts.EmployeeID != "" {
		month, err := dto.EmployeeDetailQueryDto{}.MonthStart(session.Now(), session.Location())
		if err != nil {
			return nil, err
		}
		// 第一次呼叫開啟訂閱，等投遞完成後再取一次完整結果
		if _, err := session.EmployeeDetail(ctx, opts.EmployeeID, nil, month); err != nil {
			return nil, err
		}
		src.Flush()
		detail, err := session.EmployeeDetail(ctx, opts.EmployeeID, nil, month)
		if err != nil {
			return nil, err
		}
		report.Detail = &detail
	}
	handler.logger.Info("replay finished",
		zap.String("actorId", opts.ActorID),
		zap.String("orgId", report.OrgID),
		zap.Int("employees", len(report.Employees)),
	)
	return report, nil
}

// memoryProfiles 與 UserRepository.EnsureProfile 相同語意：不存在才建立 Owner
type memoryProfiles struct {
	src *snapshot.MemorySource
}

func (p memoryProfiles) EnsureProfile(_ context.Context, actor core.Actor) (*model.User, error) {
	if snap, ok := p.src.Get(core.MongoCollectionUsers, actor.ID); ok {
		var user model.User
		if err := snap.DataTo(&user); err != nil {
			return nil, err
		}
		return &user, nil
	}
	user := model.User{ID: actor.ID, Email: actor.Email, Name: actor.Name, Role: core.RoleOwner}
	return &user, p.src.Set(core.MongoCollectionUsers, actor.ID, user)
}
