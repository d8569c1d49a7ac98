package model

import (
	"time"

	"trac/internal/core"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// User 使用者個人資料（users/{id}）
type User struct {
	ID                  string     `json:"id" bson:"_id" yaml:"id"`                                                               // 使用者唯一識別碼（身分提供者的 subject）
	Email               string     `json:"email,omitempty" bson:"email,omitempty" yaml:"email"`                                   // 使用者信箱
	Name                string     `json:"name,omitempty" bson:"name,omitempty" yaml:"name"`                                      // 顯示名稱
	Role                core.Role  `json:"role,omitempty" bson:"role,omitempty" yaml:"role"`                                      // 角色
	OrgID               string     `json:"orgId,omitempty" bson:"orgId,omitempty" yaml:"orgId"`                                   // 所屬組織
	OwnedOrgID          string     `json:"ownedOrgId,omitempty" bson:"ownedOrgId,omitempty" yaml:"ownedOrgId"`                    // 擁有的組織（優先於 orgId）
	Active              *bool      `json:"active,omitempty" bson:"active,omitempty" yaml:"active"`                                // false 時不列入員工清單
	TotalSeconds        float64    `json:"totalSeconds,omitempty" bson:"totalSeconds,omitempty" yaml:"totalSeconds"`              // 累計工作秒數
	AttachedAt          *time.Time `json:"attachedAt,omitempty" bson:"attachedAt,omitempty" yaml:"attachedAt"`                    // 加入組織時間
	LastLoginLocation   *Location  `json:"lastLoginLocation,omitempty" bson:"lastLoginLocation,omitempty" yaml:"lastLoginLocation"` // 最後登入位置
	OnboardingCompleted bool       `json:"onboardingCompleted" bson:"onboardingCompleted" yaml:"onboardingCompleted"`             // 是否完成導覽
	CreatedAt           *time.Time `json:"createdAt,omitempty" bson:"createdAt,omitempty" yaml:"createdAt"`                       // 建立時間
	UpdatedAt           *time.Time `json:"updatedAt,omitempty" bson:"updatedAt,omitempty" yaml:"updatedAt"`                       // 更新時間
}

type Location struct {
	City    string `json:"city,omitempty" bson:"city,omitempty" yaml:"city"`
	Country string `json:"country,omitempty" bson:"country,omitempty" yaml:"country"`
}

// IsActive active 欄位缺省視為啟用
func (u User) IsActive() bool {
	return u.Active == nil || *u.Active
}

var UserIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "orgId", Value: 1}},
		Options: options.Index().SetName("idx_orgId"),
	},
	{
		Keys:    bson.D{{Key: "ownedOrgId", Value: 1}},
		Options: options.Index().SetName("idx_ownedOrgId"),
	},
}
