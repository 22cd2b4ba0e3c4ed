package watch

import (
	"fmt"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// 班次的两种时间表示统一成 slotInterval，消除时钟制和绝对制各写一套判断逻辑的问题
type slotInterval interface {
	contains(now time.Time) bool
}

// 时钟制区间：只比较 now 的本地整点，与日期无关，start > end 表示跨午夜
type recurringInterval struct {
	startHour int
	endHour   int
}

func (iv recurringInterval) contains(now time.Time) bool {
	return IsHourInInterval(now.Hour(), iv.startHour, iv.endHour)
}

// 绝对制区间：直接比较时刻，[start, end) 左闭右开
type absoluteInterval struct {
	start time.Time
	end   time.Time
}

func (iv absoluteInterval) contains(now time.Time) bool {
	return !now.Before(iv.start) && now.Before(iv.end)
}

func parseSlotInterval(slot *domain.WatchSlot) (slotInterval, error) {
	if start, err := time.Parse(time.RFC3339, slot.StartTime); err == nil {
		end, err := time.Parse(time.RFC3339, slot.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: 班次 %d 的结束时间 %q 无法解析", ErrInvalidTime, slot.ID, slot.EndTime)
		}
		return absoluteInterval{start: start, end: end}, nil
	}

	startHour, err := ParseClockHour(slot.StartTime)
	if err != nil {
		return nil, fmt.Errorf("班次 %d 的开始时间无法解析: %w", slot.ID, err)
	}
	endHour, err := ParseClockHour(slot.EndTime)
	if err != nil {
		return nil, fmt.Errorf("班次 %d 的结束时间无法解析: %w", slot.ID, err)
	}

	return recurringInterval{startHour: startHour, endHour: endHour}, nil
}

// FindActiveSlot 返回第一个包含 now 的班次。
// 没有命中时返回 nil，这是正常结果（不在任何值班时段），不是错误。
// 生成器保证班次互不重叠，这里不做校验，重叠时按序返回第一个命中的。
func FindActiveSlot(slots []domain.WatchSlot, now time.Time) (*domain.WatchSlot, error) {
	for i := range slots {
		iv, err := parseSlotInterval(&slots[i])
		if err != nil {
			return nil, err
		}
		if iv.contains(now) {
			return &slots[i], nil
		}
	}

	return nil, nil
}
