// internal/clock/clock.go
package clock

import "time"

// Clock は「現在時刻」を返すインターフェースです。
// 日付・締切判定のロジックをテストで決定的にするため、
// サービス層は time.Now() を直接呼ばず必ずこれを経由します。
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// System は実時刻を返す Clock を返します。
func System() Clock {
	return systemClock{}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

// Fixed は常に同じ時刻を返す Clock を返します（テスト用）。
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}
