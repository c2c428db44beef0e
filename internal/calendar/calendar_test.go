// internal/calendar/calendar_test.go
package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestToday(t *testing.T) {
	samara := mustLoadLocation(t, "Europe/Samara")

	tests := []struct {
		name string
		now  time.Time
		loc  *time.Location
		want string
	}{
		{
			name: "正常系: UTCの深夜はサマーラでは翌日",
			// Samara は UTC+4 固定
			now:  time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC),
			loc:  samara,
			want: "2026-03-10",
		},
		{
			name: "正常系: 同じ瞬間でもUTCでは前日",
			now:  time.Date(2026, 3, 9, 22, 30, 0, 0, time.UTC),
			loc:  time.UTC,
			want: "2026-03-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Today(tt.now, tt.loc))
		})
	}
}

func TestIsWeekday(t *testing.T) {
	samara := mustLoadLocation(t, "Europe/Samara")

	tests := []struct {
		name    string
		dateStr string
		want    bool
		wantErr bool
	}{
		{name: "正常系: 月曜は平日", dateStr: "2026-03-09", want: true},
		{name: "正常系: 金曜は平日", dateStr: "2026-03-13", want: true},
		{name: "正常系: 土曜は平日でない", dateStr: "2026-03-14", want: false},
		{name: "正常系: 日曜は平日でない", dateStr: "2026-03-15", want: false},
		{name: "異常系: 不正な日付文字列", dateStr: "2026/03/09", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsWeekday(tt.dateStr, samara)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPreviousWeekday(t *testing.T) {
	samara := mustLoadLocation(t, "Europe/Samara")

	tests := []struct {
		name    string
		dateStr string
		want    string
	}{
		{name: "正常系: 火曜の前の平日は月曜", dateStr: "2026-03-10", want: "2026-03-09"},
		{name: "正常系: 月曜の前の平日は前週金曜", dateStr: "2026-03-09", want: "2026-03-06"},
		{name: "正常系: 日曜の前の平日は金曜", dateStr: "2026-03-08", want: "2026-03-06"},
		{name: "正常系: 土曜の前の平日は金曜", dateStr: "2026-03-07", want: "2026-03-06"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreviousWeekday(tt.dateStr, samara)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeadlinePassed(t *testing.T) {
	samara := mustLoadLocation(t, "Europe/Samara")

	tests := []struct {
		name     string
		dateStr  string
		deadline string
		now      time.Time
		want     bool
	}{
		{
			name:     "正常系: 締切1秒前は未経過",
			dateStr:  "2026-03-10",
			deadline: "20:00",
			now:      time.Date(2026, 3, 10, 19, 59, 59, 0, samara),
			want:     false,
		},
		{
			name:     "正常系: ちょうど締切時刻は未経過扱い",
			dateStr:  "2026-03-10",
			deadline: "20:00",
			now:      time.Date(2026, 3, 10, 20, 0, 0, 0, samara),
			want:     false,
		},
		{
			name:     "正常系: 締切1秒後は経過",
			dateStr:  "2026-03-10",
			deadline: "20:00",
			now:      time.Date(2026, 3, 10, 20, 0, 1, 0, samara),
			want:     true,
		},
		{
			name:     "正常系: nowはタイムゾーン変換して比較される",
			dateStr:  "2026-03-10",
			deadline: "20:00",
			// 16:00:01 UTC = 20:00:01 Samara
			now:  time.Date(2026, 3, 10, 16, 0, 1, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeadlinePassed(tt.dateStr, tt.deadline, samara, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
