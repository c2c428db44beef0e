// internal/calendar/calendar.go
package calendar

import (
	"fmt"
	"time"
)

// 日付・締切時刻の文字列フォーマット
const (
	DateLayout     = "2006-01-02"
	DeadlineLayout = "15:04"
)

// Today は now を指定タイムゾーンで評価した日付文字列 (YYYY-MM-DD) を返します。
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// ParseDate は YYYY-MM-DD 形式の日付文字列を指定タイムゾーンでパースします。
func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, dateStr, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar.ParseDate: %w", err)
	}
	return t, nil
}

// IsWeekday は日付が月〜金なら true、土日なら false を返します。
func IsWeekday(dateStr string, loc *time.Location) (bool, error) {
	t, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

// PreviousWeekday は土日を飛ばして一番近い過去の平日の日付を返します。
func PreviousWeekday(dateStr string, loc *time.Location) (string, error) {
	t, err := ParseDate(dateStr, loc)
	if err != nil {
		return "", err
	}
	for {
		t = t.AddDate(0, 0, -1)
		wd := t.Weekday()
		if wd != time.Saturday && wd != time.Sunday {
			return t.Format(DateLayout), nil
		}
	}
}

// DeadlinePassed は「日付 + 締切時刻(HH:mm)」を指定タイムゾーンで合成した瞬間を
// now が厳密に過ぎているとき true を返します。ちょうど締切時刻は「未経過」扱いです。
func DeadlinePassed(dateStr, deadlineHHmm string, loc *time.Location, now time.Time) (bool, error) {
	deadline, err := time.ParseInLocation(DateLayout+" "+DeadlineLayout, dateStr+" "+deadlineHHmm, loc)
	if err != nil {
		return false, fmt.Errorf("calendar.DeadlinePassed: %w", err)
	}
	return now.After(deadline), nil
}
