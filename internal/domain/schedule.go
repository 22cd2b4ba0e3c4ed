package domain

import "time"

type WatchType string

const (
	WatchTypeUnderway WatchType = "underway"
	WatchTypeAnchor   WatchType = "anchor"
	WatchTypeDock     WatchType = "dock"
)

type SlotCondition string

const (
	ConditionAlways      SlotCondition = "always"
	ConditionWeekendOnly SlotCondition = "weekend-only"
)

// CrewRef 只引用船员，不持有船员档案
type CrewRef struct {
	UserID   int64  `json:"userID"`
	UserName string `json:"userName"`
}

type CrewAssignment struct {
	UserID       int64      `json:"userID"`
	UserName     string     `json:"userName"`
	CheckedInAt  string     `json:"checkedInAt,omitempty"`  // 当日打卡时间（HH:MM），仅用于展示
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"` // 最近一次确认活动的时刻，liveness 计算以此为准
}

// WatchSlot 的 StartTime/EndTime 有两种表示：
//  1. 时钟制（"HH:00"），由固定 24 小时周期生成器产生，不带日期，允许跨午夜（start > end）
//  2. 绝对制（RFC3339），由日期区间生成器产生，每个 slot 都是连续的绝对时间段，不跨午夜
type WatchSlot struct {
	ID        int64            `json:"id"`
	StartTime string           `json:"startTime"`
	EndTime   string           `json:"endTime"`
	Crew      []CrewAssignment `json:"crew"`
	Condition SlotCondition    `json:"condition,omitempty"`
}

type WatchSchedule struct {
	ID           int64       `json:"id"`
	VesselID     int64       `json:"vesselID"`
	Name         string      `json:"name"`
	WatchType    WatchType   `json:"watchType"`
	CrewPerWatch int32       `json:"crewPerWatch"`
	IsStaggered  bool        `json:"isStaggered"`
	Slots        []WatchSlot `json:"slots"` // 按开始时间升序，顺序决定轮换序列，不能打乱
	CreatedAt    time.Time   `json:"createdAt"`
	Version      int32       `json:"-"`
}
