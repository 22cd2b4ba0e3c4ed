package watch

import (
	"context"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// slotStartInstant 把班次的开始时间解析成绝对时刻。
// 绝对制班次直接取其开始时刻；时钟制班次取开始整点在 now 之后的下一次出现
// （今天还没到就取今天，已经过了就取明天）。
func slotStartInstant(slot *domain.WatchSlot, now time.Time) (time.Time, error) {
	if start, err := time.Parse(time.RFC3339, slot.StartTime); err == nil {
		return start, nil
	}

	startHour, err := ParseClockHour(slot.StartTime)
	if err != nil {
		return time.Time{}, err
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), startHour%24, 0, 0, 0, now.Location())
	if !start.After(now) {
		start = start.AddDate(0, 0, 1)
	}

	return start, nil
}

func slotHasCrew(slot *domain.WatchSlot, userID int64) bool {
	for i := range slot.Crew {
		if slot.Crew[i].UserID == userID {
			return true
		}
	}
	return false
}

// ComputeReminders 计算某位船员在这份排班表上应该布防的全部一次性提醒。
// 两个提前量相互独立，0 表示关闭；已经开始的班次和已经过去的提醒时刻都被静默跳过，
// 绝不会追溯触发。两个提前量都为 0 时返回空集（调用方仍应执行清空）。
func ComputeReminders(schedule *domain.WatchSchedule, userID int64, lead1Minutes, lead2Minutes int32, now time.Time) ([]ReminderEvent, error) {
	events := make([]ReminderEvent, 0)
	if lead1Minutes <= 0 && lead2Minutes <= 0 {
		return events, nil
	}

	leads := []struct {
		kind    LeadKind
		minutes int32
	}{
		{LeadKindFirst, lead1Minutes},
		{LeadKindSecond, lead2Minutes},
	}

	for i := range schedule.Slots {
		slot := &schedule.Slots[i]
		if !slotHasCrew(slot, userID) {
			continue
		}

		start, err := slotStartInstant(slot, now)
		if err != nil {
			return nil, err
		}
		if !start.After(now) {
			continue
		}

		for _, lead := range leads {
			if lead.minutes <= 0 {
				continue
			}

			notifyAt := start.Add(-time.Duration(lead.minutes) * time.Minute)
			if !notifyAt.After(now) {
				continue
			}

			events = append(events, ReminderEvent{
				VesselID:    schedule.VesselID,
				UserID:      userID,
				SlotID:      slot.ID,
				SlotIndex:   i,
				LeadKind:    lead.kind,
				LeadMinutes: lead.minutes,
				NotifyAt:    notifyAt,
				SlotStart:   start,
			})
		}
	}

	return events, nil
}

// ApplyReminders 先清空该船员已布防的全部提醒，再逐个布防新的。
// 整体替换而不是增量比对，排班变更后不会残留过期提醒；
// 清空必须在布防之前完成，顺序由同步调用保证。
func ApplyReminders(ctx context.Context, sink NotificationSink, vesselID int64, userID int64, events []ReminderEvent) error {
	if err := sink.CancelAll(ctx, vesselID, userID); err != nil {
		return err
	}

	for i := range events {
		if err := sink.ArmOneShot(ctx, &events[i]); err != nil {
			return err
		}
	}

	return nil
}
