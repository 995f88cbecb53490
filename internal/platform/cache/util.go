package cache

import (
	"time"
)

// DefaultRefreshLocation は燃料価格の公表時刻を判断するタイムゾーンです。
const DefaultRefreshLocation = "Europe/Athens"

// TimeUntilNextRefresh はnowから、locにおける次のhour時ちょうどまでの期間を返します。
// 今日のhour時を既に過ぎている場合は翌日のhour時までの期間になります。
func TimeUntilNextRefresh(now time.Time, loc *time.Location, hour int) time.Duration {
	now = now.In(loc)

	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, loc)

	// 今日の更新時刻が既に過ぎている場合は明日を使用
	if !now.Before(next) {
		next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, 0, 0, 0, loc)
	}

	return next.Sub(now)
}

// LoadRefreshLocation はタイムゾーン名を読み込みます。空文字や不明な名前の場合はUTCを返します。
func LoadRefreshLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
