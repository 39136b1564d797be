package subscription

import "time"

// ===========================
// 月份加法（所有起訖日計算共用）
// ===========================

// AddMonths d 加上 months 個月
//
// 年月以 (month - 1 + months) 做 12 進位；日期超過目標月份天數時
// 取該月最後一天（1/31 + 1 個月 → 2/28 或閏年 2/29）。
// 返回值為 UTC 午夜。
func AddMonths(d time.Time, months int) time.Time {
	y, m, day := d.Date()

	total := int(m) - 1 + months
	year := y + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth 該月天數（含閏年判斷）
func DaysInMonth(year int, month time.Month) int {
	// 下個月第 0 天即本月最後一天
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ElapsedMonths start 到 end 經過的月數（以年月計，不看日）
//
// end 一律由 AddMonths 從 start 推得，因此年月差就是累計加過的月數；
// 月底對齊造成的日期漂移（1/31 → 2/29 → 3/29）不影響計數。
func ElapsedMonths(start, end time.Time) int {
	sy, sm, _ := start.Date()
	ey, em, _ := end.Date()
	n := (ey-sy)*12 + int(em) - int(sm)
	if n < 0 {
		return 0
	}
	return n
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
