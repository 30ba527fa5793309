package domain

import "time"

var kstLocation *time.Location

func init() {
	var err error
	kstLocation, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		kstLocation = time.FixedZone("KST", 9*60*60)
	}
}

// Clock: 현재 시각 공급자. 테스트에서 고정 시각을 주입할 때 사용한다.
type Clock func() time.Time

// NowKST: 현재 시간을 KST 기준으로 반환합니다.
func NowKST() time.Time {
	return time.Now().In(kstLocation)
}

// TodayKST: 주어진 시각의 KST 날짜를 YYYY-MM-DD로 반환합니다.
func TodayKST(t time.Time) string {
	return t.In(kstLocation).Format(DateLayout)
}

// ParseDate: YYYY-MM-DD 문자열을 KST 자정 시각으로 변환합니다.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, kstLocation)
}
