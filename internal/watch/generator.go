package watch

import (
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// GenerateFixedCycle 按固定 24 小时周期生成时钟制班次。
// 生成模式由值班类型决定：
//   - anchor: 只保留夜间班次，白天的班次直接丢弃
//   - dock:   全部保留，夜间班次 condition 为 always，白天为 weekend-only
//   - underway: 全部保留，condition 恒为 always
//
// 船员轮换使用一个贯穿整个序列的全局游标，不在班次或日期边界处重置。
// 空船员表不是错误，返回空序列。
func GenerateFixedCycle(roster []domain.CrewRef, p *Policy) ([]domain.WatchSlot, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	slots := make([]domain.WatchSlot, 0, 24/p.DurationHours)
	if len(roster) == 0 {
		return slots, nil
	}

	nightStart, nightEnd := p.nightWindow()
	cursor := 0

	for i := 0; i < 24/p.DurationHours; i++ {
		startHour := i * p.DurationHours
		endHour := (i + 1) * p.DurationHours
		isNightSlot := IsHourInInterval(startHour, nightStart, nightEnd)

		var condition domain.SlotCondition
		switch p.WatchType {
		case domain.WatchTypeAnchor:
			if !isNightSlot {
				continue
			}
			condition = domain.ConditionAlways
		case domain.WatchTypeDock:
			if isNightSlot {
				condition = domain.ConditionAlways
			} else {
				condition = domain.ConditionWeekendOnly
			}
		default:
			condition = domain.ConditionAlways
		}

		crew := make([]domain.CrewAssignment, 0, p.CrewPerWatch)
		for j := 0; j < p.CrewPerWatch; j++ {
			ref := roster[cursor%len(roster)]
			crew = append(crew, domain.CrewAssignment{
				UserID:   ref.UserID,
				UserName: ref.UserName,
			})
			cursor++
		}

		slots = append(slots, domain.WatchSlot{
			ID:        int64(len(slots) + 1),
			StartTime: FormatClockHour(startHour),
			EndTime:   FormatClockHour(endHour),
			Crew:      crew,
			Condition: condition,
		})
	}

	return slots, nil
}

// GenerateDateRange 在给定的绝对时间区间上生成绝对制班次。
// 交错换班（IsStaggered 且每班人数大于 1）时，子区间长度为 DurationHours/CrewPerWatch，
// 每个新的子区间只换入换出一名船员；否则子区间长度等于 DurationHours。
// 第 k 个子区间中第 p 个位置上的船员为 crew[(k-p) mod len(crew)]。
func GenerateDateRange(crew []domain.CrewRef, dr *DateRange) ([]domain.WatchSlot, error) {
	if err := dr.validate(); err != nil {
		return nil, err
	}

	slots := make([]domain.WatchSlot, 0)
	if len(crew) == 0 {
		return slots, nil
	}

	chunk := time.Duration(dr.DurationHours) * time.Hour
	if dr.IsStaggered && dr.CrewPerWatch > 1 {
		chunk = time.Duration(float64(dr.DurationHours) / float64(dr.CrewPerWatch) * float64(time.Hour))
	}

	k := 0
	for currentTime := dr.Start; currentTime.Before(dr.End); currentTime = currentTime.Add(chunk) {
		chunkEnd := currentTime.Add(chunk)
		if chunkEnd.After(dr.End) {
			chunkEnd = dr.End
		}

		assigned := make([]domain.CrewAssignment, 0, dr.CrewPerWatch)
		for p := 0; p < dr.CrewPerWatch; p++ {
			idx := (k - p) % len(crew)
			if idx < 0 {
				idx += len(crew)
			}
			assigned = append(assigned, domain.CrewAssignment{
				UserID:   crew[idx].UserID,
				UserName: crew[idx].UserName,
			})
		}

		slots = append(slots, domain.WatchSlot{
			ID:        int64(k + 1),
			StartTime: currentTime.Format(time.RFC3339),
			EndTime:   chunkEnd.Format(time.RFC3339),
			Crew:      assigned,
		})
		k++
	}

	return slots, nil
}
