package repository

import (
	"github.com/google/wire"
)

// 統一管理所有 MongoDB repository
type MongoDBRepository struct {
	User         *UserRepository
	Organization *OrganizationRepository
	Heartbeat    *HeartbeatRepository
	WorkShift    *WorkShiftRepository
	TimeEntry    *TimeEntryRepository
	Screenshot   *ScreenshotRepository
}

// 建立 MongoDB repository 物件
func NewMongoDBRepository(
	userRepository *UserRepository,
	organizationRepository *OrganizationRepository,
	heartbeatRepository *HeartbeatRepository,
	workShiftRepository *WorkShiftRepository,
	timeEntryRepository *TimeEntryRepository,
	screenshotRepository *ScreenshotRepository,
) *MongoDBRepository {
	return &MongoDBRepository{
		User:         userRepository,
		Organization: organizationRepository,
		Heartbeat:    heartbeatRepository,
		WorkShift:    workShiftRepository,
		TimeEntry:    timeEntryRepository,
		Screenshot:   screenshotRepository,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewUserRepository,
	NewOrganizationRepository,
	NewHeartbeatRepository,
	NewWorkShiftRepository,
	NewTimeEntryRepository,
	NewScreenshotRepository,
	NewMongoDBRepository)
