package watch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
)

var (
	ErrInvalidPolicy = errors.New("非法的排班策略")
	ErrInvalidTime   = errors.New("非法的时间格式")
)

const (
	DefaultNightStartHour = 20
	DefaultNightEndHour   = 8
)

// Policy: 固定 24 小时周期生成器的输入参数
type Policy struct {
	DurationHours  int              // 单个班次时长（小时），必须整除 24
	CrewPerWatch   int              // 每个班次的值班人数
	WatchType      domain.WatchType // 值班类型，决定生成模式（见 generator.go）
	NightStartHour int              // 夜间窗口开始整点，和 NightEndHour 同时为 0 时取默认值 20/8
	NightEndHour   int              // 夜间窗口结束整点
}

func (p *Policy) nightWindow() (int, int) {
	if p.NightStartHour == 0 && p.NightEndHour == 0 {
		return DefaultNightStartHour, DefaultNightEndHour
	}
	return p.NightStartHour, p.NightEndHour
}

func (p *Policy) validate() error {
	if p.DurationHours <= 0 {
		return fmt.Errorf("%w: 班次时长必须大于 0", ErrInvalidPolicy)
	}
	if 24%p.DurationHours != 0 {
		return fmt.Errorf("%w: 班次时长必须整除 24", ErrInvalidPolicy)
	}
	if p.CrewPerWatch <= 0 {
		return fmt.Errorf("%w: 每班人数必须大于 0", ErrInvalidPolicy)
	}

	nightStart, nightEnd := p.nightWindow()
	if nightStart < 0 || nightStart > 23 || nightEnd < 0 || nightEnd > 23 {
		return fmt.Errorf("%w: 夜间窗口整点必须在 0 到 23 之间", ErrInvalidPolicy)
	}

	return nil
}

// DateRange: 日期区间生成器的输入参数
type DateRange struct {
	Start         time.Time
	End           time.Time
	DurationHours int
	CrewPerWatch  int
	IsStaggered   bool // 交错换班：每个子区间只轮换一名船员，而不是整班同时交接
}

func (dr *DateRange) validate() error {
	if dr.DurationHours <= 0 {
		return fmt.Errorf("%w: 班次时长必须大于 0", ErrInvalidPolicy)
	}
	if dr.CrewPerWatch <= 0 {
		return fmt.Errorf("%w: 每班人数必须大于 0", ErrInvalidPolicy)
	}
	if !dr.End.After(dr.Start) {
		return fmt.Errorf("%w: 结束时间必须晚于开始时间", ErrInvalidPolicy)
	}

	return nil
}

type LeadKind string

const (
	LeadKindFirst  LeadKind = "first"
	LeadKindSecond LeadKind = "second"
)

// ReminderEvent: 一次性的值班提醒事件。
// 核心字段由 ComputeReminders 填充；投递相关的字段（Email 等）由调用方补充，
// 核心本身不关心提醒如何送达。
type ReminderEvent struct {
	VesselID    int64     `json:"vesselID"`
	UserID      int64     `json:"userID"`
	SlotID      int64     `json:"slotID"`
	SlotIndex   int       `json:"slotIndex"`
	LeadKind    LeadKind  `json:"leadKind"`
	LeadMinutes int32     `json:"leadMinutes"`
	NotifyAt    time.Time `json:"notifyAt"`
	SlotStart   time.Time `json:"slotStart"`

	Email      string `json:"email,omitempty"`
	FullName   string `json:"fullName,omitempty"`
	VesselName string `json:"vesselName,omitempty"`
}

// Identity 由 (slotIndex, leadKind) 唯一确定，保证重复布防幂等
func (e *ReminderEvent) Identity() string {
	return fmt.Sprintf("v%d:u%d:s%d:%s", e.VesselID, e.UserID, e.SlotIndex, e.LeadKind)
}

// NotificationSink: 提醒布防的出口，由宿主注入（生产环境为 redis 实现，测试中为内存实现）
type NotificationSink interface {
	CancelAll(ctx context.Context, vesselID int64, userID int64) error
	ArmOneShot(ctx context.Context, event *ReminderEvent) error
}
