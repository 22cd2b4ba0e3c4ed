package watch

import (
	"fmt"
	"strconv"
	"strings"
)

// IsHourInInterval 判断整点 hour 是否落在时钟区间 [start, end) 内。
// start == end 视为零宽区间，恒为 false；
// start > end 表示区间跨午夜，此时命中条件为 hour >= start 或 hour < end。
// 左闭右开的取舍决定了边界整点归属哪个班次，不能改动。
func IsHourInInterval(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return start <= hour && hour < end
	}
	return hour >= start || hour < end
}

// ParseClockTime 解析 "HH:MM" 格式的时钟时间。
// 解析失败时返回 ErrInvalidTime，绝不会把非法输入静默当成 00:00。
func ParseClockTime(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q 不是 HH:MM 形式", ErrInvalidTime, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q 的小时部分无法解析", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q 的分钟部分无法解析", ErrInvalidTime, s)
	}

	// 允许 24:00 作为班次的结束时间
	if hour < 0 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, 0, fmt.Errorf("%w: %q 的小时超出范围", ErrInvalidTime, s)
	}
	if minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q 的分钟超出范围", ErrInvalidTime, s)
	}

	return hour, minute, nil
}

// ParseClockHour 解析时钟制班次边界（"HH:00"）并返回整点
func ParseClockHour(s string) (int, error) {
	hour, _, err := ParseClockTime(s)
	if err != nil {
		return 0, err
	}
	return hour, nil
}

func FormatClockHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
