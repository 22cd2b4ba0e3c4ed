package watch

import (
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// lastActivityInstant 解出船员最近一次确认活动的时刻。
// 优先使用 LastActiveAt；只有 CheckedInAt 时按今天的钟点重建，
// 如果重建出的时刻比 now 晚超过一小时，说明是昨天临近午夜打的卡，回拨一天。
func lastActivityInstant(a *domain.CrewAssignment, now time.Time) (time.Time, bool, error) {
	if a.LastActiveAt != nil {
		return *a.LastActiveAt, true, nil
	}

	if a.CheckedInAt == "" {
		return time.Time{}, false, nil
	}

	hour, minute, err := ParseClockTime(a.CheckedInAt)
	if err != nil {
		return time.Time{}, false, err
	}

	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if t.Sub(now) > time.Hour {
		t = t.AddDate(0, 0, -1)
	}

	return t, true, nil
}

// EvaluateLiveness 根据距上次确认活动的时长给出当前的 liveness 状态。
// 状态没有存储，每个评估 tick 都重新计算：
//   - 不在值班中: normal（不参与评估）
//   - 超时 <= 间隔: green
//   - 间隔 < 超时 <= 间隔+1 分钟: amber（一分钟宽限）
//   - 超时 > 间隔+1 分钟: red
//   - 值班中但从未确认过活动: 直接 red，缺席确认按最坏情况处理
func EvaluateLiveness(a *domain.CrewAssignment, intervalMinutes int32, now time.Time, onWatch bool) (domain.LivenessState, error) {
	if !onWatch {
		return domain.LivenessNormal, nil
	}

	last, ok, err := lastActivityInstant(a, now)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.LivenessRed, nil
	}

	diffMinutes := now.Sub(last).Minutes()
	interval := float64(intervalMinutes)

	switch {
	case diffMinutes <= interval:
		return domain.LivenessGreen, nil
	case diffMinutes <= interval+1:
		return domain.LivenessAmber, nil
	default:
		return domain.LivenessRed, nil
	}
}

// EvaluateOverdue 返回超出打卡间隔的分钟数，供逾期告警使用。
// 红色状态下结果至少为 1；从未确认过活动的船员没有可计算的基准，按整个间隔计。
func EvaluateOverdue(a *domain.CrewAssignment, intervalMinutes int32, now time.Time) (int32, error) {
	last, ok, err := lastActivityInstant(a, now)
	if err != nil {
		return 0, err
	}
	if !ok {
		return intervalMinutes, nil
	}

	overdue := int32(now.Sub(last).Minutes()) - intervalMinutes
	if overdue < 1 {
		overdue = 1
	}

	return overdue, nil
}

// EvaluateEscalation 给出当前 tick 是否应该触发告警音。
// 由宿主以 1Hz 轮询驱动：amber 每 15 秒一次低强度提示，red 每 5 秒一次高强度警报。
// 按秒对齐的取模触发是尽力而为的，不保证精确定时。
func EvaluateEscalation(state domain.LivenessState, now time.Time) (domain.AlertLevel, bool) {
	switch state {
	case domain.LivenessAmber:
		if now.Unix()%15 == 0 {
			return domain.AlertLevelLow, true
		}
	case domain.LivenessRed:
		if now.Unix()%5 == 0 {
			return domain.AlertLevelHigh, true
		}
	}

	return "", false
}
