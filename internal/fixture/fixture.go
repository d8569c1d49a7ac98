package fixture

import (
	"errors"
	"fmt"
	"os"

	"trac/internal/core"
	"trac/internal/database/mongodb/model"
	"trac/internal/snapshot"
	"trac/utils/validate"

	"gopkg.in/yaml.v3"
)

var ErrInvalidFixture = errors.New("invalid fixture")

// Fixture 一次匯入的文件集合（replay / seed 共用）
type Fixture struct {
	Users         []model.User         `yaml:"users"`
	Organizations []model.Organization `yaml:"organizations"`
	Heartbeats    []model.Heartbeat    `yaml:"heartbeats"`
	WorkShifts    []model.WorkShift    `yaml:"workShifts"`
	TimeEntries   []model.TimeEntry    `yaml:"timeEntries"`
	Screenshots   []model.Screenshot   `yaml:"screenshots"`
}

func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	f.normalize()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// normalize 截圖未給 day 時取 timestamp 的 UTC 日期
func (f *Fixture) normalize() {
	for i := range f.Screenshots {
		if f.Screenshots[i].Day == "" && !f.Screenshots[i].Timestamp.IsZero() {
			f.Screenshots[i].Day = f.Screenshots[i].Timestamp.UTC().Format(core.DateLayout)
		}
	}
}

func (f *Fixture) Validate() error {
	for i, u := range f.Users {
		if !validate.IsValidDocumentID(u.ID) {
			return fmt.Errorf("users[%d]: id %q: %w", i, u.ID, ErrInvalidFixture)
		}
		if u.Role != "" && !validate.IsValidRole(string(u.Role)) {
			return fmt.Errorf("users[%d]: role %q: %w", i, u.Role, ErrInvalidFixture)
		}
	}
	for i, o := range f.Organizations {
		if !validate.IsValidDocumentID(o.ID) {
			return fmt.Errorf("organizations[%d]: id %q: %w", i, o.ID, ErrInvalidFixture)
		}
	}
	for i, h := range f.Heartbeats {
		if !validate.IsValidDocumentID(h.UserID) {
			return fmt.Errorf("heartbeats[%d]: userId %q: %w", i, h.UserID, ErrInvalidFixture)
		}
	}
	for i, s := range f.WorkShifts {
		if !validate.IsValidDocumentID(s.UserID) || !validate.IsValidDocumentID(s.ShiftID) {
			return fmt.Errorf("workShifts[%d]: id %q: %w", i, s.DocumentID(), ErrInvalidFixture)
		}
	}
	for i, e := range f.TimeEntries {
		if !validate.IsValidDocumentID(e.ID) || e.UserID == "" {
			return fmt.Errorf("timeEntries[%d]: id %q: %w", i, e.ID, ErrInvalidFixture)
		}
	}
	for i, s := range f.Screenshots {
		if !validate.IsValidDocumentID(s.ID) || s.UserID == "" {
			return fmt.Errorf("screenshots[%d]: id %q: %w", i, s.ID, ErrInvalidFixture)
		}
	}
	return nil
}

// ApplyTo 寫入 MemorySource；文件 id 與 Mongo 相同
func (f *Fixture) ApplyTo(src *snapshot.MemorySource) error {
	for _, u := range f.Users {
		if err := src.Set(core.MongoCollectionUsers, u.ID, u); err != nil {
			return err
		}
	}
	for _, o := range f.Organizations {
		if err := src.Set(core.MongoCollectionOrganizations, o.ID, o); err != nil {
			return err
		}
	}
	for _, h := range f.Heartbeats {
		if err := src.Set(core.MongoCollectionHeartbeats, h.UserID, h); err != nil {
			return err
		}
	}
	for _, s := range f.WorkShifts {
		if err := src.Set(core.MongoCollectionWorkShifts, s.DocumentID(), s); err != nil {
			return err
		}
	}
	for _, e := range f.TimeEntries {
		if err := src.Set(core.MongoCollectionTimeEntries, e.ID, e); err != nil {
			return err
		}
	}
	for _, s := range f.Screenshots {
		if err := src.Set(core.MongoCollectionScreenshots, s.ID, s); err != nil {
			return err
		}
	}
	return nil
}

// Count 各集合的文件數
func (f *Fixture) Count() map[core.MongoCollection]int {
	return map[core.MongoCollection]int{
		core.MongoCollectionUsers:         len(f.Users),
		core.MongoCollectionOrganizations: len(f.Organizations),
		core.MongoCollectionHeartbeats:    len(f.Heartbeats),
		core.MongoCollectionWorkShifts:    len(f.WorkShifts),
		core.MongoCollectionTimeEntries:   len(f.TimeEntries),
		core.MongoCollectionScreenshots:   len(f.Screenshots),
	}
}
