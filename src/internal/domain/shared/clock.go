package shared

import "time"

// Clock 時間來源（測試時可注入固定時間）
type Clock interface {
	Now() time.Time
}

// SystemClock 使用系統時間，Location 為 nil 時使用 UTC
type SystemClock struct {
	Location *time.Location
}

// Now 實現 Clock
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock 固定時間
type FixedClock struct {
	At time.Time
}

// Now 實現 Clock
func (c FixedClock) Now() time.Time {
	return c.At
}

// DateOf 取出日曆日期（時區內的年月日），正規化為 UTC 午夜
//
// 訂閱的起訖日只比較日期，統一成 UTC 午夜方便相等比較。
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 以 clock 取今天日期
func Today(clock Clock) time.Time {
	return DateOf(clock.Now())
}
