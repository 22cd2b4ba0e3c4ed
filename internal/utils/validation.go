package utils

import (
	"fmt"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

// ValidateAbsoluteSlots 检查绝对制班次的时间是否合法（结束晚于开始、互不重叠）。
// 生成器本身保证这些性质，这里是持久化之前的最后一道校验。
func ValidateAbsoluteSlots(slots []domain.WatchSlot) error {
	// 检查每一个班次的结束时间是不是都大于开始时间
	starts := make([]time.Time, len(slots))
	ends := make([]time.Time, len(slots))

	for i, slot := range slots {
		startTime, err := time.Parse(time.RFC3339, slot.StartTime)
		if err != nil {
			return fmt.Errorf("班次 %d 的开始时间格式错误", i)
		}
		endTime, err := time.Parse(time.RFC3339, slot.EndTime)
		if err != nil {
			return fmt.Errorf("班次 %d 的结束时间格式错误", i)
		}
		if !endTime.After(startTime) {
			return fmt.Errorf("班次 %d 的结束时间不能早于开始时间", i)
		}
		starts[i] = startTime
		ends[i] = endTime
	}

	// 检查各个班次之间的时间是否冲突
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if starts[j].Before(ends[i]) && starts[i].Before(ends[j]) {
				return fmt.Errorf("班次 %d 和班次 %d 之间的时间冲突", i, j)
			}
		}
	}

	return nil
}

// ValidateCrewSelection 检查选中的船员是否都存在且在船
func ValidateCrewSelection(selected []int64, users []*domain.User) error {
	usersMap := make(map[int64]*domain.User, len(users))
	for _, user := range users {
		usersMap[user.ID] = user
	}

	for _, id := range selected {
		user, exists := usersMap[id]
		if !exists {
			return fmt.Errorf("船员 %d 不存在", id)
		}
		if !user.IsActive {
			return fmt.Errorf("船员 %s 已下船", user.FullName)
		}
	}

	return nil
}
