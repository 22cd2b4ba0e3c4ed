package watch

import (
	"testing"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func clockSlots() []domain.WatchSlot {
	return []domain.WatchSlot{
		{ID: 1, StartTime: "08:00", EndTime: "12:00"},
		{ID: 2, StartTime: "12:00", EndTime: "16:00"},
		{ID: 3, StartTime: "20:00", EndTime: "08:00"},
	}
}

func atHour(hour int) time.Time {
	return time.Date(2026, 3, 10, hour, 0, 0, 0, time.Local)
}

func TestFindActiveSlotClockRegime(t *testing.T) {
	slots := clockSlots()

	tests := []struct {
		name   string
		now    time.Time
		wantID int64 // 0 表示不在任何值班时段
	}{
		{"上午班中段", atHour(9), 1},
		{"边界整点归属后一个班次", atHour(12), 2},
		{"夜班跨午夜前半段", atHour(22), 3},
		{"夜班跨午夜后半段", atHour(2), 3},
		{"空档期无人值班", atHour(18), 0},
		{"夜班结束整点不再命中", atHour(8), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot, err := FindActiveSlot(slots, tt.now)
			require.NoError(t, err)
			if tt.wantID == 0 {
				require.Nil(t, slot)
				return
			}
			require.NotNil(t, slot)
			require.Equal(t, tt.wantID, slot.ID)
		})
	}
}

func TestFindActiveSlotAbsoluteRegime(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	slots := []domain.WatchSlot{
		{ID: 1, StartTime: start.Format(time.RFC3339), EndTime: start.Add(4 * time.Hour).Format(time.RFC3339)},
		{ID: 2, StartTime: start.Add(4 * time.Hour).Format(time.RFC3339), EndTime: start.Add(8 * time.Hour).Format(time.RFC3339)},
	}

	slot, err := FindActiveSlot(slots, start.Add(time.Hour))
	require.NoError(t, err)
	require.NotNil(t, slot)
	require.Equal(t, int64(1), slot.ID)

	// 开始时刻含、结束时刻不含
	slot, err = FindActiveSlot(slots, start.Add(4*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, slot)
	require.Equal(t, int64(2), slot.ID)

	// 整个排班表之外
	slot, err = FindActiveSlot(slots, start.Add(9*time.Hour))
	require.NoError(t, err)
	require.Nil(t, slot)
}

func TestFindActiveSlotOverlapReturnsFirst(t *testing.T) {
	// 生成器保证不重叠，但调用方传入重叠数据时按序返回第一个命中的
	slots := []domain.WatchSlot{
		{ID: 1, StartTime: "08:00", EndTime: "16:00"},
		{ID: 2, StartTime: "12:00", EndTime: "20:00"},
	}

	slot, err := FindActiveSlot(slots, atHour(13))
	require.NoError(t, err)
	require.NotNil(t, slot)
	require.Equal(t, int64(1), slot.ID)
}

func TestFindActiveSlotMalformedTime(t *testing.T) {
	slots := []domain.WatchSlot{
		{ID: 1, StartTime: "abc", EndTime: "12:00"},
	}

	_, err := FindActiveSlot(slots, atHour(9))
	require.ErrorIs(t, err, ErrInvalidTime)
}

func TestFindActiveSlotEmpty(t *testing.T) {
	slot, err := FindActiveSlot([]domain.WatchSlot{}, atHour(9))
	require.NoError(t, err)
	require.Nil(t, slot)
}
