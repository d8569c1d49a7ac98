package handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"trac/internal/core"
	"trac/internal/database/mongodb/repository"
	"trac/internal/fixture"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedHandler 將 fixture 透過 repository 寫入 MongoDB（可重複執行）
type SeedHandler struct {
	logger       *zap.Logger
	repositories *repository.MongoDBRepository
}

func NewSeedHandler(logger *zap.Logger, repositories *repository.MongoDBRepository) *SeedHandler {
	return &SeedHandler{logger: logger, repositories: repositories}
}

func (handler *SeedHandler) Seed(ctx context.Context, out io.Writer, fixturePath string) error {
	f, err := fixture.Load(fixturePath)
	if err != nil {
		return err
	}
	repos := handler.repositories

	for i := range f.Organizations {
		if err := repos.Organization.Upsert(ctx, &f.Organizations[i]); err != nil {
			return fmt.Errorf("seed organization %s: %w", f.Organizations[i].ID, err)
		}
	}
	for i := range f.Users {
		if err := repos.User.Upsert(ctx, &f.Users[i]); err != nil {
			return fmt.Errorf("seed user %s: %w", f.Users[i].ID, err)
		}
	}
	for i := range f.Heartbeats {
		if err := repos.Heartbeat.Upsert(ctx, &f.Heartbeats[i]); err != nil {
			return fmt.Errorf("seed heartbeat %s: %w", f.Heartbeats[i].UserID, err)
		}
	}
	for i := range f.WorkShifts {
		if err := repos.WorkShift.Upsert(ctx, &f.WorkShifts[i]); err != nil {
			return fmt.Errorf("seed work shift %s: %w", f.WorkShifts[i].DocumentID(), err)
		}
	}
	for i := range f.TimeEntries {
		if err := repos.TimeEntry.Upsert(ctx, &f.TimeEntries[i]); err != nil {
			return fmt.Errorf("seed time entry %s: %w", f.TimeEntries[i].ID, err)
		}
	}
	for i := range f.Screenshots {
		if err := repos.Screenshot.Upsert(ctx, &f.Screenshots[i]); err != nil {
			return fmt.Errorf("seed screenshot %s: %w", f.Screenshots[i].ID, err)
		}
	}

	for collection, n := range f.Count() {
		handler.logger.Info("seeded collection", zap.String("collection", string(collection)), zap.Int("documents", n))
	}

	// 匯入後從資料庫讀回各組織，確認 orgId / ownedOrgId 對得上
	for _, fixtureOrg := range f.Organizations {
		if err := handler.summarize(ctx, out, fixtureOrg.ID); err != nil {
			return err
		}
	}
	return nil
}

func (handler *SeedHandler) summarize(ctx context.Context, out io.Writer, orgID string) error {
	repos := handler.repositories

	org, err := repos.Organization.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("read back organization %s: %w", orgID, err)
	}
	ownerName := "-"
	if org.OwnerID != "" {
		owner, err := repos.User.GetByID(ctx, org.OwnerID)
		switch {
		case err == nil:
			ownerName = owner.Name
		case !errors.Is(err, mongo.ErrNoDocuments):
			return fmt.Errorf("read owner %s: %w", org.OwnerID, err)
		}
	}

	members, err := repos.User.ListByOrganization(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("list members of %s: %w", org.ID, err)
	}
	fmt.Fprintf(out, "%s (%s) owner=%s: %d members\n", org.ID, org.Name, ownerName, len(members))

	for _, m := range members {
		role := m.Role
		if role == "" {
			role = core.RoleEmployee
		}
		online := false
		heartbeat, err := repos.Heartbeat.GetByUserID(ctx, m.ID)
		switch {
		case err == nil:
			online = heartbeat.IsCurrentlyRunning
		case !errors.Is(err, mongo.ErrNoDocuments):
			return fmt.Errorf("read heartbeat %s: %w", m.ID, err)
		}
		latest := "-"
		shifts, err := repos.WorkShift.ListByUser(ctx, m.ID, 1)
		if err != nil {
			return fmt.Errorf("list shifts of %s: %w", m.ID, err)
		}
		if len(shifts) > 0 {
			latest = shifts[0].ShiftID
		}
		fmt.Fprintf(out, "  - %s %s [%s] online=%t latestShift=%s\n", m.ID, m.Name, role, online, latest)
	}
	return nil
}
