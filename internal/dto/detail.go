package dto

import (
	"time"

	"trac/internal/core"
	"trac/internal/pkg/request"
)

// 員工明細查詢參數
type EmployeeDetailQueryDto struct {
	Joined string `form:"joined" binding:"omitempty,datetime=2006-01-02"` // 覆寫加入日期，預設使用個人資料 attachedAt
	Month  string `form:"month" binding:"omitempty,datetime=2006-01"`     // 出勤月曆的月份，預設本月
}

func (q EmployeeDetailQueryDto) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Joined.datetime": "joined must be formatted as yyyy-MM-dd",
		"Month.datetime":  "month must be formatted as yyyy-MM",
	}
}

// JoinedAt 未指定時回傳 nil
func (q EmployeeDetailQueryDto) JoinedAt(loc *time.Location) (*time.Time, error) {
	if q.Joined == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(core.DateLayout, q.Joined, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MonthStart 未指定時使用 now 所在月份
func (q EmployeeDetailQueryDto) MonthStart(now time.Time, loc *time.Location) (time.Time, error) {
	if q.Month == "" {
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc), nil
	}
	return time.ParseInLocation("2006-01", q.Month, loc)
}
