// internal/service/status.go
package service

import (
	"time"

	"go_5_read_keep/internal/calendar"
	"go_5_read_keep/internal/model"
)

// ResolveVisualStatus は表示用のステータスを導出します。保存された status は
// 書き換えず、読み出し時に日付と締切から見かけのステータスを決めます。
//
//   - graded は常に graded(優先)
//   - 日付が今日より前なら missed
//   - 日付が今日で締切を過ぎていれば missed
//   - それ以外は保存されたステータスのまま
func ResolveVisualStatus(a *model.Assignment, loc *time.Location, now time.Time) model.AssignmentStatus {
	if a.Status == model.AssignmentGraded {
		return model.AssignmentGraded
	}

	today := calendar.Today(now, loc)
	if a.Date < today {
		return model.AssignmentMissed
	}
	if a.Date == today {
		passed, err := calendar.DeadlinePassed(a.Date, a.DeadlineTime, loc, now)
		if err == nil && passed {
			return model.AssignmentMissed
		}
	}
	return a.Status
}
