package watch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsHourInInterval(t *testing.T) {
	tests := []struct {
		name  string
		hour  int
		start int
		end   int
		want  bool
	}{
		{"普通区间包含开始整点", 8, 8, 12, true},
		{"普通区间包含中间整点", 10, 8, 12, true},
		{"普通区间不包含结束整点", 12, 8, 12, false},
		{"普通区间之前", 7, 8, 12, false},
		{"跨午夜区间的前半段", 22, 20, 8, true},
		{"跨午夜区间的后半段", 2, 20, 8, true},
		{"跨午夜区间包含开始整点", 20, 20, 8, true},
		{"跨午夜区间不包含结束整点", 8, 20, 8, false},
		{"跨午夜区间的白天", 12, 20, 8, false},
		{"零宽区间恒为假", 5, 5, 5, false},
		{"零宽区间恒为假（命中整点）", 0, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsHourInInterval(tt.hour, tt.start, tt.end))
		})
	}
}

func TestIsHourInIntervalExhaustive(t *testing.T) {
	// 对全部 (hour, start, end) 组合验证三段定义
	for hour := 0; hour < 24; hour++ {
		for start := 0; start < 24; start++ {
			for end := 0; end < 24; end++ {
				got := IsHourInInterval(hour, start, end)
				var want bool
				switch {
				case start == end:
					want = false
				case start < end:
					want = start <= hour && hour < end
				default:
					want = hour >= start || hour < end
				}
				require.Equal(t, want, got, "hour=%d start=%d end=%d", hour, start, end)
			}
		}
	}
}

func TestParseClockTime(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{"整点", "08:00", 8, 0, false},
		{"带分钟", "23:45", 23, 45, false},
		{"允许 24:00 作为结束边界", "24:00", 24, 0, false},
		{"24 点之后非法", "24:01", 0, 0, true},
		{"小时超界", "25:00", 0, 0, true},
		{"分钟超界", "10:60", 0, 0, true},
		{"缺少冒号", "0800", 0, 0, true},
		{"非数字", "ab:cd", 0, 0, true},
		{"空字符串", "", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseClockTime(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, ErrInvalidTime)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantHour, hour)
			require.Equal(t, tt.wantMinute, minute)
		})
	}
}

func TestFormatClockHour(t *testing.T) {
	require.Equal(t, "00:00", FormatClockHour(0))
	require.Equal(t, "04:00", FormatClockHour(4))
	require.Equal(t, "20:00", FormatClockHour(20))
	require.Equal(t, "24:00", FormatClockHour(24))
}
