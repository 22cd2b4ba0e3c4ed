package watch

import (
	"context"
	"testing"
	"time"

	"github.com/harborwatch-dev/watch-keeper/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	cancelCalls int
	armed       []ReminderEvent
}

func (s *fakeSink) CancelAll(ctx context.Context, vesselID int64, userID int64) error {
	s.cancelCalls++
	s.armed = s.armed[:0]
	return nil
}

func (s *fakeSink) ArmOneShot(ctx context.Context, event *ReminderEvent) error {
	s.armed = append(s.armed, *event)
	return nil
}

func absoluteSchedule(now time.Time) *domain.WatchSchedule {
	return &domain.WatchSchedule{
		ID:       1,
		VesselID: 7,
		Slots: []domain.WatchSlot{
			{
				ID:        1,
				StartTime: now.Add(-2 * time.Hour).Format(time.RFC3339), // 已经开始，跳过
				EndTime:   now.Add(-1 * time.Hour).Format(time.RFC3339),
				Crew:      []domain.CrewAssignment{{UserID: 42, UserName: "Alice"}},
			},
			{
				ID:        2,
				StartTime: now.Add(3 * time.Hour).Format(time.RFC3339),
				EndTime:   now.Add(7 * time.Hour).Format(time.RFC3339),
				Crew:      []domain.CrewAssignment{{UserID: 42, UserName: "Alice"}},
			},
			{
				ID:        3,
				StartTime: now.Add(8 * time.Hour).Format(time.RFC3339), // 不含该船员，跳过
				EndTime:   now.Add(12 * time.Hour).Format(time.RFC3339),
				Crew:      []domain.CrewAssignment{{UserID: 99, UserName: "Bob"}},
			},
		},
	}
}

func TestComputeReminders(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	schedule := absoluteSchedule(now)

	events, err := ComputeReminders(schedule, 42, 30, 10, now)
	require.NoError(t, err)
	require.Len(t, events, 2)

	slotStart := now.Add(3 * time.Hour)

	require.Equal(t, int64(7), events[0].VesselID)
	require.Equal(t, int64(2), events[0].SlotID)
	require.Equal(t, LeadKindFirst, events[0].LeadKind)
	require.Equal(t, slotStart.Add(-30*time.Minute), events[0].NotifyAt)

	require.Equal(t, LeadKindSecond, events[1].LeadKind)
	require.Equal(t, slotStart.Add(-10*time.Minute), events[1].NotifyAt)
}

func TestComputeRemindersLeadDisabled(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	schedule := absoluteSchedule(now)

	// 只开第二段
	events, err := ComputeReminders(schedule, 42, 0, 10, now)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, LeadKindSecond, events[0].LeadKind)

	// 两段都关
	events, err = ComputeReminders(schedule, 42, 0, 0, now)
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestComputeRemindersSkipsPastNotifyAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	schedule := absoluteSchedule(now)

	// 提前 4 小时的提醒时刻已经过去，不布防
	events, err := ComputeReminders(schedule, 42, 240, 10, now)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, LeadKindSecond, events[0].LeadKind)
}

func TestComputeRemindersClockRegime(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)
	schedule := &domain.WatchSchedule{
		VesselID: 7,
		Slots: []domain.WatchSlot{
			// 今天 20:00 还没到，取今天
			{ID: 1, StartTime: "20:00", EndTime: "24:00", Crew: []domain.CrewAssignment{{UserID: 42}}},
			// 今天 04:00 已经过了，取明天
			{ID: 2, StartTime: "04:00", EndTime: "08:00", Crew: []domain.CrewAssignment{{UserID: 42}}},
		},
	}

	events, err := ComputeReminders(schedule, 42, 15, 0, now)
	require.NoError(t, err)
	require.Len(t, events, 2)

	today8pm := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)
	tomorrow4am := time.Date(2026, 3, 11, 4, 0, 0, 0, time.Local)
	require.Equal(t, today8pm.Add(-15*time.Minute), events[0].NotifyAt)
	require.Equal(t, tomorrow4am.Add(-15*time.Minute), events[1].NotifyAt)
}

func TestComputeRemindersIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	schedule := absoluteSchedule(now)

	first, err := ComputeReminders(schedule, 42, 30, 10, now)
	require.NoError(t, err)
	second, err := ComputeReminders(schedule, 42, 30, 10, now)
	require.NoError(t, err)

	require.Equal(t, first, second)
	for i := range first {
		require.Equal(t, first[i].Identity(), second[i].Identity())
	}
}

func TestApplyRemindersCancelThenArm(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	schedule := absoluteSchedule(now)
	sink := &fakeSink{}

	events, err := ComputeReminders(schedule, 42, 30, 10, now)
	require.NoError(t, err)
	require.NoError(t, ApplyReminders(context.Background(), sink, 7, 42, events))
	require.Equal(t, 1, sink.cancelCalls)
	require.Len(t, sink.armed, 2)

	// 重复布防是整体替换，不是追加
	require.NoError(t, ApplyReminders(context.Background(), sink, 7, 42, events))
	require.Equal(t, 2, sink.cancelCalls)
	require.Len(t, sink.armed, 2)

	// 两段全关时只执行清空
	require.NoError(t, ApplyReminders(context.Background(), sink, 7, 42, nil))
	require.Equal(t, 3, sink.cancelCalls)
	require.Empty(t, sink.armed)
}
